package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Answer is a respondent's value for one question: a scalar for every type
// except multi-choice, which carries a set of selected options.
type Answer struct {
	Value  string   `bson:"value,omitempty"`
	Values []string `bson:"values,omitempty"`
	Multi  bool     `bson:"multi,omitempty"`
}

// Text builds a scalar answer
func Text(v string) Answer {
	return Answer{Value: v}
}

// Selection builds a multi-choice answer
func Selection(values ...string) Answer {
	if values == nil {
		values = []string{}
	}
	return Answer{Values: values, Multi: true}
}

// IsEmpty reports whether the answer counts as unanswered
func (a Answer) IsEmpty() bool {
	if a.Multi {
		for _, v := range a.Values {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(a.Value) == ""
}

// Trimmed returns a copy with surrounding whitespace removed from every
// value. Rule matching compares exact strings, so answers are trimmed once
// before they are checked and stored.
func (a Answer) Trimmed() Answer {
	if !a.Multi {
		a.Value = strings.TrimSpace(a.Value)
		return a
	}
	values := make([]string, len(a.Values))
	for i, v := range a.Values {
		values[i] = strings.TrimSpace(v)
	}
	a.Values = values
	return a
}

func (a Answer) String() string {
	if a.Multi {
		return strings.Join(a.Values, ",")
	}
	return a.Value
}

// MarshalJSON encodes scalars as strings and sets as arrays
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		values := a.Values
		if values == nil {
			values = []string{}
		}
		return json.Marshal(values)
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts a string, a number, null, or an array of strings
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Answer{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '[':
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("answer set must contain strings: %w", err)
		}
		*a = Selection(values...)
		return nil
	case '"':
		return json.Unmarshal(data, &a.Value)
	case '{':
		return fmt.Errorf("answer must be a string, number or array")
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer must be a string, number or array")
		}
		a.Value = n.String()
		return nil
	}
}

// AnswerMap holds the answers of one fill session, keyed by question ordinal
type AnswerMap map[int]Answer

// Clone returns a deep copy
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		if v.Values != nil {
			v.Values = append([]string(nil), v.Values...)
		}
		out[k] = v
	}
	return out
}
