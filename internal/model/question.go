package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeShortText    QuestionType = "short_text"
	QuestionTypeLongText     QuestionType = "long_text"
	QuestionTypeDate         QuestionType = "date"
	QuestionTypeInteger      QuestionType = "integer"
	QuestionTypeDecimal      QuestionType = "decimal"
	QuestionTypeEmail        QuestionType = "email"
	QuestionTypeSingleChoice QuestionType = "single_choice"
	QuestionTypeMultiChoice  QuestionType = "multi_choice"
)

// Valid reports whether t is one of the known question types
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeShortText, QuestionTypeLongText, QuestionTypeDate, QuestionTypeInteger,
		QuestionTypeDecimal, QuestionTypeEmail, QuestionTypeSingleChoice, QuestionTypeMultiChoice:
		return true
	}
	return false
}

// IsChoice reports whether answers are picked from Options
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultiChoice
}

// IsMulti reports whether answers are sets of options
func (t QuestionType) IsMulti() bool {
	return t == QuestionTypeMultiChoice
}

// Jump is the target of a branching rule: a question ordinal or JumpEnd.
type Jump int

// JumpEnd is the terminal sentinel ("end the form now").
const JumpEnd Jump = -1

const jumpEndLiteral = "end"

// IsEnd reports whether j is the terminal sentinel
func (j Jump) IsEnd() bool {
	return j == JumpEnd
}

// To builds a jump to the question at ordinal
func To(ordinal int) Jump {
	return Jump(ordinal)
}

func (j Jump) String() string {
	if j.IsEnd() {
		return jumpEndLiteral
	}
	return strconv.Itoa(int(j))
}

// ParseJump accepts "end" or a decimal ordinal
func ParseJump(s string) (Jump, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, jumpEndLiteral) {
		return JumpEnd, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid jump target %q: want an ordinal or %q", s, jumpEndLiteral)
	}
	return Jump(n), nil
}

func (j Jump) MarshalJSON() ([]byte, error) {
	if j.IsEnd() {
		return json.Marshal(jumpEndLiteral)
	}
	return json.Marshal(int(j))
}

func (j *Jump) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*j = Jump(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid jump target %s", string(data))
	}
	parsed, err := ParseJump(s)
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

func (j Jump) MarshalYAML() (interface{}, error) {
	if j.IsEnd() {
		return jumpEndLiteral, nil
	}
	return int(j), nil
}

func (j *Jump) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseJump(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*j = parsed
	return nil
}

// BranchRule sends the respondent to Goto when the answer equals When
type BranchRule struct {
	When string `json:"when" bson:"when" yaml:"when"`
	Goto Jump   `json:"goto" bson:"goto" yaml:"goto"`
}

// Question is one step of a form. Ordinal always equals its index in Form.Questions.
type Question struct {
	ID        string       `json:"id,omitempty" bson:"id,omitempty" yaml:"id,omitempty"` // assigned on first save, never changes
	Ordinal   int          `json:"ordinal" bson:"ordinal" yaml:"ordinal"`
	Text      string       `json:"text" bson:"text" yaml:"text"`
	Type      QuestionType `json:"type" bson:"type" yaml:"type"`
	Required  bool         `json:"required" bson:"required" yaml:"required,omitempty"`
	Options   []string     `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"` // choice types only
	Branching []BranchRule `json:"branching,omitempty" bson:"branching,omitempty" yaml:"branching,omitempty"`
}

// HasOption reports whether label is one of the question's options
func (q *Question) HasOption(label string) bool {
	for _, o := range q.Options {
		if o == label {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the question
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.Branching != nil {
		out.Branching = append([]BranchRule(nil), q.Branching...)
	}
	return out
}
