package engine

import "formflow/internal/model"

// Start returns the initial progress for form: [0], or an empty terminal
// path when the form has no questions.
func Start(form *model.Form) model.Progress {
	if form == nil || form.Len() == 0 {
		return model.Progress{Path: []int{}, Terminal: true}
	}
	return model.Progress{Path: []int{0}}
}

// OnPath reports whether ordinal is on the visible path and may therefore be
// (re)answered.
func OnPath(p model.Progress, ordinal int) bool {
	return indexOf(p.Path, ordinal) >= 0
}

// Advance is the only transition of the visible path. The path is first cut
// back to end at the answered ordinal, discarding everything that followed
// under a previous answer, and then extended according to the question's
// rules. Calling it twice with the same inputs gives the same result, so a
// value-change and a commit event for one answer cannot double-append.
//
// Answering an ordinal that is not on the path leaves p unchanged. Invalid
// jump targets end the form instead of failing.
func Advance(form *model.Form, p model.Progress, ordinal int, answer model.Answer) model.Progress {
	at := indexOf(p.Path, ordinal)
	if form == nil || at < 0 {
		return p.Clone()
	}
	path := append([]int{}, p.Path[:at+1]...)

	q := form.Question(ordinal)
	if q == nil {
		return model.Progress{Path: path, Terminal: true}
	}

	target := Evaluate(q, answer)
	switch target.Kind {
	case Terminal:
		return model.Progress{Path: path, Terminal: true}
	case NoMatch:
		next := ordinal + 1
		if next >= form.Len() {
			return model.Progress{Path: path, Terminal: true}
		}
		return model.Progress{Path: append(path, next)}
	}

	if target.Ordinal < 0 || target.Ordinal >= form.Len() {
		return model.Progress{Path: path, Terminal: true}
	}
	if i := indexOf(path, target.Ordinal); i >= 0 {
		// backward jump: the route now ends at the earlier visit
		return model.Progress{Path: path[:i+1]}
	}
	return model.Progress{Path: append(path, target.Ordinal)}
}

func indexOf(path []int, ordinal int) int {
	for i, o := range path {
		if o == ordinal {
			return i
		}
	}
	return -1
}
