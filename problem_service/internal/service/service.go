package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DeadlyParkour777/problemset/pkg/logger"
	"github.com/DeadlyParkour777/problemset/pkg/problemform"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/cache"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/store"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/types"
	"github.com/segmentio/kafka-go"
)

type Service interface {
	CreateProblem(ctx context.Context, sub problemform.Submission) (*types.Problem, error)
	GetProblem(ctx context.Context, id string) (*types.Problem, error)
	ListProblems(ctx context.Context) ([]*types.Problem, error)
	CreateTestCase(ctx context.Context, problemID, input, output string) (*types.TestCase, error)
	GetTestCases(ctx context.Context, problemID string) ([]*types.TestCase, error)
}

// EventWriter is the subset of *kafka.Writer the service publishes through.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type service struct {
	store         store.Store
	cache         cache.ProblemCache
	kafkaTopic    string
	kafkaProducer EventWriter
	log           *logger.Logger
}

func NewService(store store.Store, cache cache.ProblemCache, kafkaTopic string, kafkaProducer EventWriter, log *logger.Logger) Service {
	return &service{
		store:         store,
		cache:         cache,
		kafkaTopic:    kafkaTopic,
		kafkaProducer: kafkaProducer,
		log:           log,
	}
}

// CreateProblem stores a submission that passes problemform validation.
// An invalid submission is returned as *problemform.ValidationError.
func (s *service) CreateProblem(ctx context.Context, sub problemform.Submission) (*types.Problem, error) {
	if err := problemform.Check(sub); err != nil {
		return nil, err
	}

	createdProblem, err := s.store.CreateProblem(ctx, types.FromSubmission(sub))
	if err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}
	s.log.Info("problem created", "problem_id", createdProblem.ID, "tests", len(createdProblem.Tests))

	s.invalidate(ctx, "")
	s.publish(ctx, types.ProblemEvent{
		EventType: types.EventProblemCreated,
		Problem:   createdProblem,
		ProblemID: createdProblem.ID,
	})

	return createdProblem, nil
}

func (s *service) GetProblem(ctx context.Context, id string) (*types.Problem, error) {
	cached, err := s.cache.GetProblem(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("cache read failed", "problem_id", id, "error", err)
	}

	problem, err := s.store.GetProblem(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProblem(ctx, problem); err != nil {
		s.log.Warn("cache write failed", "problem_id", id, "error", err)
	}
	return problem, nil
}

func (s *service) ListProblems(ctx context.Context) ([]*types.Problem, error) {
	cached, err := s.cache.GetProblemList(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("cache read failed", "key", "problem list", "error", err)
	}

	problems, err := s.store.ListProblems(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProblemList(ctx, problems); err != nil {
		s.log.Warn("cache write failed", "key", "problem list", "error", err)
	}
	return problems, nil
}

func (s *service) CreateTestCase(ctx context.Context, problemID, input, output string) (*types.TestCase, error) {
	testCase := &types.TestCase{
		ProblemID: problemID,
		Input:     input,
		Output:    output,
	}
	created, err := s.store.CreateTestCase(ctx, testCase)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, problemID)
	return created, nil
}

func (s *service) GetTestCases(ctx context.Context, problemID string) ([]*types.TestCase, error) {
	return s.store.GetTestCasesByProblemID(ctx, problemID)
}

func (s *service) invalidate(ctx context.Context, problemID string) {
	if err := s.cache.Invalidate(ctx, problemID); err != nil {
		s.log.Warn("cache invalidation failed", "problem_id", problemID, "error", err)
	}
}

// publish is best effort: the problem is already stored.
func (s *service) publish(ctx context.Context, event types.ProblemEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		s.log.Error("failed to marshal problem event", "problem_id", event.ProblemID, "error", err)
		return
	}

	err = s.kafkaProducer.WriteMessages(ctx, kafka.Message{
		Topic: s.kafkaTopic,
		Key:   []byte(event.ProblemID),
		Value: message,
		Time:  time.Now(),
	})
	if err != nil {
		s.log.Error("failed to produce problem event", "problem_id", event.ProblemID, "error", err)
	}
}
