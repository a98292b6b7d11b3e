package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DeadlyParkour777/problemset/problem_service/internal/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrProblemNotFound = errors.New("problem not found")

const pqForeignKeyViolation = "23503"

type Store interface {
	CreateProblem(ctx context.Context, problem *types.Problem) (*types.Problem, error)
	GetProblem(ctx context.Context, id string) (*types.Problem, error)
	ListProblems(ctx context.Context) ([]*types.Problem, error)
	CreateTestCase(ctx context.Context, testCase *types.TestCase) (*types.TestCase, error)
	GetTestCasesByProblemID(ctx context.Context, problemID string) ([]*types.TestCase, error)
}

type store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

// CreateProblem inserts the problem and all of its test cases in one transaction.
func (s *store) CreateProblem(ctx context.Context, problem *types.Problem) (*types.Problem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	problem.ID = uuid.New().String()

	query := `INSERT INTO problems (id, title, content) VALUES ($1, $2, $3) RETURNING created_at`
	if err := tx.QueryRowContext(ctx, query, problem.ID, problem.Title, problem.Content).Scan(&problem.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO test_cases (id, problem_id, position, input_data, output_data) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare test case insert: %w", err)
	}
	defer stmt.Close()

	for _, tc := range problem.Tests {
		tc.ID = uuid.New().String()
		tc.ProblemID = problem.ID
		if _, err := stmt.ExecContext(ctx, tc.ID, tc.ProblemID, tc.Position, tc.Input, tc.Output); err != nil {
			return nil, fmt.Errorf("failed to create test case: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit problem: %w", err)
	}

	return problem, nil
}

func (s *store) GetProblem(ctx context.Context, id string) (*types.Problem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrProblemNotFound
	}

	problem := &types.Problem{}
	query := `SELECT id, title, content, created_at FROM problems WHERE id = $1`

	err := s.db.QueryRowContext(ctx, query, id).Scan(&problem.ID, &problem.Title, &problem.Content, &problem.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	problem.Tests, err = s.GetTestCasesByProblemID(ctx, id)
	if err != nil {
		return nil, err
	}
	return problem, nil
}

func (s *store) ListProblems(ctx context.Context) ([]*types.Problem, error) {
	var problems []*types.Problem
	query := `SELECT id, title, content, created_at FROM problems ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, query)

	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		problem := &types.Problem{}
		if err := rows.Scan(&problem.ID, &problem.Title, &problem.Content, &problem.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		problems = append(problems, problem)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return problems, nil
}

// CreateTestCase appends a test case after the problem's current last position.
// The problem row is locked so concurrent appends get distinct positions.
func (s *store) CreateTestCase(ctx context.Context, testCase *types.TestCase) (*types.TestCase, error) {
	if _, err := uuid.Parse(testCase.ProblemID); err != nil {
		return nil, ErrProblemNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM problems WHERE id = $1 FOR UPDATE`, testCase.ProblemID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to lock problem: %w", err)
	}

	testCase.ID = uuid.New().String()
	query := `INSERT INTO test_cases (id, problem_id, position, input_data, output_data)
	          VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM test_cases WHERE problem_id = $2), $3, $4)
	          RETURNING position`

	err = tx.QueryRowContext(ctx, query, testCase.ID, testCase.ProblemID, testCase.Input, testCase.Output).Scan(&testCase.Position)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to create test case: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit test case: %w", err)
	}

	return testCase, nil
}

func (s *store) GetTestCasesByProblemID(ctx context.Context, problemID string) ([]*types.TestCase, error) {
	if _, err := uuid.Parse(problemID); err != nil {
		return nil, ErrProblemNotFound
	}

	var testCases []*types.TestCase

	query := `SELECT id, problem_id, position, input_data, output_data FROM test_cases WHERE problem_id = $1 ORDER BY position, id`
	rows, err := s.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tc := &types.TestCase{}
		if err := rows.Scan(&tc.ID, &tc.ProblemID, &tc.Position, &tc.Input, &tc.Output); err != nil {
			return nil, fmt.Errorf("failed to scan test case: %w", err)
		}
		testCases = append(testCases, tc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over test case rows: %w", err)
	}

	return testCases, nil
}
