// Package problemform validates "create problem" submissions: a title, the
// problem content and an ordered list of test-case input/output pairs.
//
// Validate never fails. It reports every problem it finds as a message bound
// to the field it belongs to, in the shape form renderers expect: plain
// messages for title and content, and for tests either one list-level message
// or a sparse sequence of per-test-case messages aligned by index.
package problemform

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MsgTitleRequired   = "Enter a title"
	MsgContentRequired = "Enter content"
	MsgTestsRequired   = "At least one test case must be entered"
	MsgRequired        = "Required"
)

var ErrInvalidSubmission = errors.New("invalid problem submission")

// Submission is a candidate problem. Nil fields are absent.
type Submission struct {
	Title   *string     `json:"title,omitempty" yaml:"title"`
	Content *string     `json:"content,omitempty" yaml:"content"`
	Tests   []*TestCase `json:"tests,omitempty" yaml:"tests"`
}

type TestCase struct {
	TestInput  *string `json:"test_input,omitempty" yaml:"test_input"`
	TestOutput *string `json:"test_output,omitempty" yaml:"test_output"`
}

// Result holds field-level messages. The zero value means the submission is valid.
type Result struct {
	Title   string       `json:"title,omitempty"`
	Content string       `json:"content,omitempty"`
	Tests   *TestsErrors `json:"tests,omitempty"`
}

// TestsErrors is either a list-level message or a sparse sequence of
// per-test-case errors; a nil item means the test case at that index is valid.
type TestsErrors struct {
	ListError string
	Items     []*TestCaseErrors
}

type TestCaseErrors struct {
	TestInput  string `json:"test_input,omitempty"`
	TestOutput string `json:"test_output,omitempty"`
}

// Validate checks sub and returns the messages for every invalid field.
func Validate(sub Submission) Result {
	var res Result

	if blank(sub.Title) {
		res.Title = MsgTitleRequired
	}
	if blank(sub.Content) {
		res.Content = MsgContentRequired
	}

	if len(sub.Tests) == 0 {
		res.Tests = &TestsErrors{ListError: MsgTestsRequired}
		return res
	}

	var items []*TestCaseErrors
	for i, tc := range sub.Tests {
		var tcErrs TestCaseErrors
		if tc == nil || empty(tc.TestInput) {
			tcErrs.TestInput = MsgRequired
		}
		if tc == nil || empty(tc.TestOutput) {
			tcErrs.TestOutput = MsgRequired
		}
		if tcErrs == (TestCaseErrors{}) {
			continue
		}
		for len(items) < i {
			items = append(items, nil)
		}
		items = append(items, &tcErrs)
	}
	if len(items) > 0 {
		res.Tests = &TestsErrors{Items: items}
	}

	return res
}

// Check returns nil for a valid submission and a *ValidationError otherwise.
func Check(sub Submission) error {
	res := Validate(sub)
	if res.Valid() {
		return nil
	}
	return &ValidationError{Result: res}
}

func (r Result) Valid() bool {
	return r.Title == "" && r.Content == "" && r.Tests == nil
}

// Count returns the number of messages in r.
func (r Result) Count() int {
	n := 0
	if r.Title != "" {
		n++
	}
	if r.Content != "" {
		n++
	}
	if r.Tests == nil {
		return n
	}
	if r.Tests.ListError != "" {
		n++
	}
	for _, item := range r.Tests.Items {
		if item == nil {
			continue
		}
		if item.TestInput != "" {
			n++
		}
		if item.TestOutput != "" {
			n++
		}
	}
	return n
}

type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %d field errors", ErrInvalidSubmission, e.Result.Count())
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}

// Text returns a pointer to s.
func Text(s string) *string {
	return &s
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// Test data keeps its whitespace: only an absent or empty value is missing.
func empty(s *string) bool {
	return s == nil || *s == ""
}
