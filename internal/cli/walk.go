package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"formflow/internal/engine"
	"formflow/internal/model"
)

// WalkStep is the progress after one simulated answer.
type WalkStep struct {
	Ordinal  int          `json:"ordinal"`
	Answer   model.Answer `json:"answer"`
	Path     []int        `json:"path"`
	Terminal bool         `json:"terminal"`
}

// WalkResult is the outcome of a simulated fill session.
type WalkResult struct {
	Steps           []WalkStep    `json:"steps"`
	Record          *model.Record `json:"record,omitempty"`
	MissingQuestion *int          `json:"missingQuestion,omitempty"`
}

// NewWalkCommand creates the walk command.
func NewWalkCommand(rootOpts *RootOptions) *cobra.Command {
	var answers []string

	cmd := &cobra.Command{
		Use:   "walk <form.yaml>",
		Short: "Simulate a fill session and print the visible path",
		Long: `Apply answers in order, printing the path after each one, then try to submit.

Answers are given as ORDINAL=VALUE. Multi-choice values are comma separated.`,
		Example: "formctl walk signup.yaml --answer 0=B --answer 1=because",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWalk(rootOpts, args[0], answers, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "answer as ORDINAL=VALUE (repeatable)")

	return cmd
}

func runWalk(opts *RootOptions, path string, answers []string, cmd *cobra.Command) error {
	out := &outputFormatter{format: opts.Format, w: cmd.OutOrStdout()}

	form, err := LoadForm(path)
	if err != nil {
		return err
	}
	engine.Repair(form)

	result, walkErr := Walk(form, answers)

	if out.json() {
		status := "ok"
		if walkErr != nil {
			status = "error"
		}
		resp := CLIResponse{Status: status, Data: result}
		if walkErr != nil {
			resp.Error = walkErr.Error()
		}
		if err := out.encode(resp); err != nil {
			return err
		}
	} else {
		for _, s := range result.Steps {
			out.printf("answer %d = %q -> path %v terminal=%t\n", s.Ordinal, s.Answer.String(), s.Path, s.Terminal)
		}
		if result.Record != nil {
			out.printf("record:\n")
			for _, ord := range sortedOrdinals(result.Record.Answers) {
				out.printf("  %d: %s\n", ord, result.Record.Answers[ord].String())
			}
		}
	}

	return walkErr
}

// Walk starts a session on form and applies the ORDINAL=VALUE answers in
// order. The returned error is an *ExitError; the result holds every step
// taken before it.
func Walk(form *model.Form, answers []string) (*WalkResult, error) {
	result := &WalkResult{Steps: []WalkStep{}}
	progress := engine.Start(form)
	given := model.AnswerMap{}

	for _, raw := range answers {
		ordinal, answer, err := parseAnswer(form, raw)
		if err != nil {
			return result, WrapExitError(ExitCommandError, "bad --answer", err)
		}
		if !engine.OnPath(progress, ordinal) {
			return result, NewExitError(ExitFailure, fmt.Sprintf("question %d is not on the path %v", ordinal, progress.Path))
		}
		if err := engine.CheckAnswer(form.Question(ordinal), answer); err != nil {
			return result, WrapExitError(ExitFailure, "answer rejected", err)
		}
		given[ordinal] = answer
		progress = engine.Advance(form, progress, ordinal, answer)
		result.Steps = append(result.Steps, WalkStep{
			Ordinal:  ordinal,
			Answer:   answer,
			Path:     append([]int{}, progress.Path...),
			Terminal: progress.Terminal,
		})
	}

	record, err := engine.Finalize(form, progress.Path, given)
	var valErr *engine.ValidationError
	if errors.As(err, &valErr) {
		missing := valErr.MissingQuestion
		result.MissingQuestion = &missing
		return result, WrapExitError(ExitFailure, "submission blocked", err)
	}
	result.Record = record
	return result, nil
}

func parseAnswer(form *model.Form, raw string) (int, model.Answer, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return 0, model.Answer{}, fmt.Errorf("%q: want ORDINAL=VALUE", raw)
	}
	ordinal, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, model.Answer{}, fmt.Errorf("%q: ordinal must be a number", raw)
	}
	q := form.Question(ordinal)
	if q == nil {
		return 0, model.Answer{}, fmt.Errorf("%q: form has no question %d", raw, ordinal)
	}
	if !q.Type.IsMulti() {
		return ordinal, model.Text(value).Trimmed(), nil
	}
	var values []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return ordinal, model.Selection(values...), nil
}

func sortedOrdinals(m model.AnswerMap) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
