package engine

import "formflow/internal/model"

// TargetKind classifies the result of evaluating a question's rules.
type TargetKind int

const (
	// NoMatch means no rule fired; the caller falls back to ordinal+1.
	NoMatch TargetKind = iota
	// Terminal means a rule ended the form.
	Terminal
	// Question means a rule jumped to Target.Ordinal.
	Question
)

func (k TargetKind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Question:
		return "question"
	default:
		return "no_match"
	}
}

// Target is the navigation outcome of one answer.
type Target struct {
	Kind    TargetKind
	Ordinal int
}

// Evaluate walks q's rules in authored order and returns the first match.
// A multi-choice answer matches a rule when any selected option equals the
// rule's When; every other answer matches by direct equality.
func Evaluate(q *model.Question, answer model.Answer) Target {
	if q == nil {
		return Target{Kind: NoMatch}
	}
	for _, rule := range q.Branching {
		if !matches(rule.When, answer) {
			continue
		}
		if rule.Goto.IsEnd() {
			return Target{Kind: Terminal}
		}
		return Target{Kind: Question, Ordinal: int(rule.Goto)}
	}
	return Target{Kind: NoMatch}
}

func matches(when string, answer model.Answer) bool {
	if answer.Multi {
		for _, v := range answer.Values {
			if v == when {
				return true
			}
		}
		return false
	}
	return answer.Value == when
}
