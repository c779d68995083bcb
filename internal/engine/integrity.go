package engine

import "formflow/internal/model"

// AppendQuestion adds q at the end of the form. Existing jump targets are
// unaffected.
func AppendQuestion(form *model.Form, q model.Question) int {
	q = q.Clone()
	form.Questions = append(form.Questions, q)
	Repair(form)
	return form.Len() - 1
}

// InsertQuestion places q at ordinal at, shifting later questions down by one
// and every jump that pointed at them along with it.
func InsertQuestion(form *model.Form, at int, q model.Question) error {
	if at < 0 || at > form.Len() {
		return &EditError{Op: "insert", Ordinal: at, Len: form.Len()}
	}
	remap(form, func(t int) int {
		if t >= at {
			return t + 1
		}
		return t
	})
	q = q.Clone()
	form.Questions = append(form.Questions, model.Question{})
	copy(form.Questions[at+1:], form.Questions[at:])
	form.Questions[at] = q
	Repair(form)
	return nil
}

// DeleteQuestion removes the question at ordinal d. Jumps to d become
// terminal, jumps past d close the gap, everything else is untouched.
func DeleteQuestion(form *model.Form, d int) error {
	if d < 0 || d >= form.Len() {
		return &EditError{Op: "delete", Ordinal: d, Len: form.Len()}
	}
	form.Questions = append(form.Questions[:d], form.Questions[d+1:]...)
	remap(form, func(t int) int {
		switch {
		case t == d:
			return int(model.JumpEnd)
		case t > d:
			return t - 1
		default:
			return t
		}
	})
	Repair(form)
	return nil
}

// MoveQuestion moves the question at from to position to. Every jump follows
// the question it pointed at, including jumps to the moved question itself.
// This differs from a DeleteQuestion followed by InsertQuestion, which would
// turn jumps to the moved question into terminal jumps.
func MoveQuestion(form *model.Form, from, to int) error {
	n := form.Len()
	if from < 0 || from >= n {
		return &EditError{Op: "move", Ordinal: from, Len: n}
	}
	if to < 0 || to >= n {
		return &EditError{Op: "move", Ordinal: to, Len: n}
	}
	if from == to {
		return nil
	}

	moved := form.Questions[from]
	rest := append(append([]model.Question{}, form.Questions[:from]...), form.Questions[from+1:]...)
	reordered := make([]model.Question, 0, n)
	reordered = append(reordered, rest[:to]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[to:]...)
	form.Questions = reordered

	remap(form, func(t int) int {
		switch {
		case t == from:
			return to
		case from < to && t > from && t <= to:
			return t - 1
		case to < from && t >= to && t < from:
			return t + 1
		default:
			return t
		}
	})
	Repair(form)
	return nil
}

// SetOptions replaces the options of a choice question and drops that
// question's rules whose When no longer names an option. Rules on other
// questions are left alone even if they share the removed label.
func SetOptions(form *model.Form, ordinal int, options []string) error {
	q := form.Question(ordinal)
	if q == nil {
		return &EditError{Op: "set options", Ordinal: ordinal, Len: form.Len()}
	}
	q.Options = append([]string(nil), options...)
	if !q.Type.IsChoice() {
		return nil
	}
	kept := q.Branching[:0]
	for _, rule := range q.Branching {
		if q.HasOption(rule.When) {
			kept = append(kept, rule)
		}
	}
	q.Branching = kept
	return nil
}

// Repair renumbers ordinals to match positions and degrades every jump that
// does not name an existing question to terminal. After Repair every Goto is
// either JumpEnd or a valid ordinal.
func Repair(form *model.Form) {
	n := form.Len()
	for i := range form.Questions {
		q := &form.Questions[i]
		q.Ordinal = i
		for j := range q.Branching {
			g := q.Branching[j].Goto
			if !g.IsEnd() && (g < 0 || int(g) >= n) {
				q.Branching[j].Goto = model.JumpEnd
			}
		}
	}
}

// remap rewrites every numeric jump target through fn. fn returning a
// negative value means terminal.
func remap(form *model.Form, fn func(int) int) {
	for i := range form.Questions {
		rules := form.Questions[i].Branching
		for j := range rules {
			if rules[j].Goto.IsEnd() {
				continue
			}
			t := fn(int(rules[j].Goto))
			if t < 0 {
				rules[j].Goto = model.JumpEnd
				continue
			}
			rules[j].Goto = model.Jump(t)
		}
	}
}
