package problemform

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type listError struct {
	Error string `json:"_error"`
}

// MarshalJSON encodes a list-level message as {"_error": msg} and per-test-case
// errors as an array with null for valid test cases.
func (t TestsErrors) MarshalJSON() ([]byte, error) {
	if t.ListError != "" {
		return json.Marshal(listError{Error: t.ListError})
	}
	items := t.Items
	if items == nil {
		items = []*TestCaseErrors{}
	}
	return json.Marshal(items)
}

func (t *TestsErrors) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty tests errors")
	}

	switch data[0] {
	case '{':
		var le listError
		if err := json.Unmarshal(data, &le); err != nil {
			return err
		}
		*t = TestsErrors{ListError: le.Error}
	case '[':
		var items []*TestCaseErrors
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*t = TestsErrors{Items: items}
	default:
		return fmt.Errorf("unexpected tests errors payload: %s", data)
	}
	return nil
}
