package types

import (
	"time"

	"github.com/DeadlyParkour777/problemset/pkg/problemform"
)

const EventProblemCreated = "created"

type Problem struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Tests     []*TestCase `json:"tests,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type TestCase struct {
	ID        string `json:"id"`
	ProblemID string `json:"problem_id"`
	Position  int    `json:"position"`
	Input     string `json:"test_input"`
	Output    string `json:"test_output"`
}

type ProblemEvent struct {
	EventType string   `json:"event_type"`
	Problem   *Problem `json:"problem,omitempty"`
	ProblemID string   `json:"problem_id,omitempty"`
}

// FromSubmission builds an unsaved problem from a submission that already
// passed problemform.Validate. Test cases keep their submitted order.
func FromSubmission(sub problemform.Submission) *Problem {
	problem := &Problem{
		Title:   deref(sub.Title),
		Content: deref(sub.Content),
	}
	for i, tc := range sub.Tests {
		if tc == nil {
			continue
		}
		problem.Tests = append(problem.Tests, &TestCase{
			Position: i,
			Input:    deref(tc.TestInput),
			Output:   deref(tc.TestOutput),
		})
	}
	return problem
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type CreateTestCaseRequest struct {
	TestInput  string `json:"test_input" validate:"required"`
	TestOutput string `json:"test_output" validate:"required"`
}
