package problemform

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func validTest(in, out string) *TestCase {
	return &TestCase{TestInput: Text(in), TestOutput: Text(out)}
}

func TestValidate_Empty(t *testing.T) {
	res := Validate(Submission{})

	if res.Title != MsgTitleRequired {
		t.Fatalf("unexpected title error: %q", res.Title)
	}
	if res.Content != MsgContentRequired {
		t.Fatalf("unexpected content error: %q", res.Content)
	}
	if res.Tests == nil || res.Tests.ListError != MsgTestsRequired {
		t.Fatalf("expected list-level tests error, got %+v", res.Tests)
	}
	if len(res.Tests.Items) != 0 {
		t.Fatalf("expected no per-test errors, got %d", len(res.Tests.Items))
	}
	if res.Valid() {
		t.Fatalf("expected invalid result")
	}
	if res.Count() != 3 {
		t.Fatalf("expected 3 messages, got %d", res.Count())
	}
}

func TestValidate_EmptyTestsList(t *testing.T) {
	res := Validate(Submission{Title: Text("T"), Content: Text("C"), Tests: []*TestCase{}})

	if res.Title != "" || res.Content != "" {
		t.Fatalf("unexpected title/content errors: %+v", res)
	}
	if res.Tests == nil || res.Tests.ListError != MsgTestsRequired {
		t.Fatalf("expected list-level tests error, got %+v", res.Tests)
	}
}

func TestValidate_Valid(t *testing.T) {
	res := Validate(Submission{
		Title:   Text("T"),
		Content: Text("C"),
		Tests:   []*TestCase{validTest("1", "2")},
	})

	if !res.Valid() {
		t.Fatalf("expected valid result, got %+v", res)
	}
	if res.Count() != 0 {
		t.Fatalf("expected no messages, got %d", res.Count())
	}
}

func TestValidate_MissingOutputOnly(t *testing.T) {
	res := Validate(Submission{
		Title:   Text("T"),
		Content: Text("C"),
		Tests:   []*TestCase{{TestInput: Text("1")}},
	})

	if res.Tests == nil || len(res.Tests.Items) != 1 {
		t.Fatalf("expected one per-test entry, got %+v", res.Tests)
	}
	item := res.Tests.Items[0]
	if item == nil {
		t.Fatalf("expected error at index 0")
	}
	if item.TestInput != "" {
		t.Fatalf("unexpected test_input error: %q", item.TestInput)
	}
	if item.TestOutput != MsgRequired {
		t.Fatalf("unexpected test_output error: %q", item.TestOutput)
	}
	if res.Tests.ListError != "" {
		t.Fatalf("unexpected list error: %q", res.Tests.ListError)
	}
}

func TestValidate_EmptyTitleAndEmptyTestCase(t *testing.T) {
	res := Validate(Submission{
		Title:   Text(""),
		Content: Text("C"),
		Tests:   []*TestCase{{}},
	})

	if res.Title != MsgTitleRequired {
		t.Fatalf("expected title error, got %q", res.Title)
	}
	if res.Content != "" {
		t.Fatalf("unexpected content error: %q", res.Content)
	}
	item := res.Tests.Items[0]
	if item.TestInput != MsgRequired || item.TestOutput != MsgRequired {
		t.Fatalf("expected both fields required, got %+v", item)
	}
}

func TestValidate_NilTestCase(t *testing.T) {
	res := Validate(Submission{
		Title:   Text("T"),
		Content: Text("C"),
		Tests:   []*TestCase{validTest("1", "1"), nil},
	})

	if res.Tests == nil || len(res.Tests.Items) != 2 {
		t.Fatalf("expected two entries, got %+v", res.Tests)
	}
	if res.Tests.Items[0] != nil {
		t.Fatalf("expected valid test case to have no entry")
	}
	item := res.Tests.Items[1]
	if item.TestInput != MsgRequired || item.TestOutput != MsgRequired {
		t.Fatalf("expected both fields required, got %+v", item)
	}
}

func TestValidate_SparseItems(t *testing.T) {
	res := Validate(Submission{
		Title:   Text("T"),
		Content: Text("C"),
		Tests: []*TestCase{
			validTest("1", "1"),
			{TestOutput: Text("2")},
			validTest("3", "3"),
			validTest("4", "4"),
		},
	})

	if res.Tests == nil {
		t.Fatalf("expected tests errors")
	}
	if len(res.Tests.Items) != 2 {
		t.Fatalf("expected sequence to end at the last errored index, got %d", len(res.Tests.Items))
	}
	if res.Tests.Items[0] != nil {
		t.Fatalf("expected nil entry at index 0")
	}
	if res.Tests.Items[1].TestInput != MsgRequired || res.Tests.Items[1].TestOutput != "" {
		t.Fatalf("unexpected entry at index 1: %+v", res.Tests.Items[1])
	}
}

func TestValidate_WhitespacePolicy(t *testing.T) {
	res := Validate(Submission{
		Title:   Text("   "),
		Content: Text("\n\t"),
		Tests:   []*TestCase{validTest(" ", "\n")},
	})

	if res.Title != MsgTitleRequired {
		t.Fatalf("expected blank title to be rejected")
	}
	if res.Content != MsgContentRequired {
		t.Fatalf("expected blank content to be rejected")
	}
	if res.Tests != nil {
		t.Fatalf("expected whitespace test data to be accepted, got %+v", res.Tests)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	sub := Submission{
		Title: Text("T"),
		Tests: []*TestCase{nil, {TestInput: Text("1")}, validTest("a", "b")},
	}

	first := Validate(sub)
	second := Validate(sub)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}

func TestValidate_ItemsNeverExceedInput(t *testing.T) {
	cases := [][]*TestCase{
		nil,
		{},
		{nil},
		{validTest("1", "1")},
		{nil, nil, nil},
		{validTest("1", "1"), {}, validTest("1", "1")},
		{{}, validTest("1", "1"), validTest("1", "1"), {TestInput: Text("x")}},
	}

	for i, tests := range cases {
		res := Validate(Submission{Title: Text("T"), Content: Text("C"), Tests: tests})
		if res.Tests == nil {
			continue
		}
		if len(res.Tests.Items) > len(tests) {
			t.Fatalf("case %d: %d items for %d tests", i, len(res.Tests.Items), len(tests))
		}
	}
}

func TestCheck(t *testing.T) {
	if err := Check(Submission{Title: Text("T"), Content: Text("C"), Tests: []*TestCase{validTest("1", "1")}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Check(Submission{Title: Text("T")})
	if !errors.Is(err, ErrInvalidSubmission) {
		t.Fatalf("expected ErrInvalidSubmission, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Result.Content != MsgContentRequired {
		t.Fatalf("unexpected result: %+v", verr.Result)
	}
}

func TestResult_JSON(t *testing.T) {
	cases := []struct {
		name string
		sub  Submission
		want string
	}{
		{
			name: "empty submission",
			sub:  Submission{},
			want: `{"title":"Enter a title","content":"Enter content","tests":{"_error":"At least one test case must be entered"}}`,
		},
		{
			name: "valid submission",
			sub:  Submission{Title: Text("T"), Content: Text("C"), Tests: []*TestCase{validTest("1", "2")}},
			want: `{}`,
		},
		{
			name: "sparse test errors",
			sub:  Submission{Title: Text("T"), Content: Text("C"), Tests: []*TestCase{validTest("1", "2"), {TestInput: Text("1")}}},
			want: `{"tests":[null,{"test_output":"Required"}]}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(Validate(tc.sub))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tc.want {
				t.Fatalf("got %s, want %s", data, tc.want)
			}
		})
	}
}

func TestTestsErrors_UnmarshalJSON(t *testing.T) {
	var res Result
	if err := json.Unmarshal([]byte(`{"tests":{"_error":"At least one test case must be entered"}}`), &res); err != nil {
		t.Fatalf("unmarshal list error: %v", err)
	}
	if res.Tests == nil || res.Tests.ListError != MsgTestsRequired {
		t.Fatalf("unexpected tests: %+v", res.Tests)
	}

	res = Result{}
	if err := json.Unmarshal([]byte(`{"title":"Enter a title","tests":[null,{"test_input":"Required"}]}`), &res); err != nil {
		t.Fatalf("unmarshal items: %v", err)
	}
	if res.Title != MsgTitleRequired {
		t.Fatalf("unexpected title: %q", res.Title)
	}
	if len(res.Tests.Items) != 2 || res.Tests.Items[0] != nil || res.Tests.Items[1].TestInput != MsgRequired {
		t.Fatalf("unexpected items: %+v", res.Tests.Items)
	}

	if err := json.Unmarshal([]byte(`{"tests":"oops"}`), &res); err == nil {
		t.Fatalf("expected error for string payload")
	}
}

func TestSubmission_DecodeRejectsNonText(t *testing.T) {
	var sub Submission
	if err := json.Unmarshal([]byte(`{"title":0}`), &sub); err == nil {
		t.Fatalf("expected decode error for numeric title")
	}
}
