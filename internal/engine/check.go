package engine

import (
	"fmt"

	"formflow/internal/model"
)

// Severity ranks a Problem. Errors block publishing, warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is one finding of Check.
type Problem struct {
	Ordinal  int      `json:"ordinal"`
	Rule     int      `json:"rule"` // index into Branching, -1 for question-level findings
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (p Problem) String() string {
	if p.Rule >= 0 {
		return fmt.Sprintf("%s: question %d rule %d: %s", p.Severity, p.Ordinal, p.Rule, p.Message)
	}
	return fmt.Sprintf("%s: question %d: %s", p.Severity, p.Ordinal, p.Message)
}

// Check reports structural issues without fixing them.
func Check(form *model.Form) []Problem {
	var problems []Problem
	n := form.Len()
	for i := range form.Questions {
		q := &form.Questions[i]
		if q.Ordinal != i {
			problems = append(problems, Problem{Ordinal: i, Rule: -1, Severity: SeverityError,
				Message: fmt.Sprintf("ordinal %d does not match position", q.Ordinal)})
		}
		if !q.Type.Valid() {
			problems = append(problems, Problem{Ordinal: i, Rule: -1, Severity: SeverityError,
				Message: fmt.Sprintf("unknown type %q", q.Type)})
		}
		if q.Type.IsChoice() && len(q.Options) == 0 {
			problems = append(problems, Problem{Ordinal: i, Rule: -1, Severity: SeverityError,
				Message: "choice question has no options"})
		}
		for j, rule := range q.Branching {
			g := rule.Goto
			switch {
			case g.IsEnd():
			case g < 0 || int(g) >= n:
				problems = append(problems, Problem{Ordinal: i, Rule: j, Severity: SeverityError,
					Message: fmt.Sprintf("jump to %d does not name a question", g)})
			case int(g) == i:
				problems = append(problems, Problem{Ordinal: i, Rule: j, Severity: SeverityWarning,
					Message: "jumps to itself"})
			}
			if q.Type.IsChoice() && !q.HasOption(rule.When) {
				problems = append(problems, Problem{Ordinal: i, Rule: j, Severity: SeverityWarning,
					Message: fmt.Sprintf("when %q is not an option and can never match", rule.When)})
			}
		}
	}
	return problems
}

// HasErrors reports whether any problem has error severity.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
