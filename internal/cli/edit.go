package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"formflow/internal/engine"
	"formflow/internal/model"
)

// NewDeleteQuestionCommand creates the delete-question command.
func NewDeleteQuestionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-question <form.yaml> <ordinal>",
		Short: "Delete a question and print the form with jumps rewritten",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ordinals, err := parseOrdinals(args[1:])
			if err != nil {
				return err
			}
			return runEdit(rootOpts, args[0], cmd, func(form *model.Form) error {
				return engine.DeleteQuestion(form, ordinals[0])
			})
		},
	}
}

// NewMoveQuestionCommand creates the move-question command.
func NewMoveQuestionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move-question <form.yaml> <from> <to>",
		Short: "Move a question and print the form with jumps rewritten",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ordinals, err := parseOrdinals(args[1:])
			if err != nil {
				return err
			}
			return runEdit(rootOpts, args[0], cmd, func(form *model.Form) error {
				return engine.MoveQuestion(form, ordinals[0], ordinals[1])
			})
		},
	}
}

func runEdit(opts *RootOptions, path string, cmd *cobra.Command, edit func(*model.Form) error) error {
	out := &outputFormatter{format: opts.Format, w: cmd.OutOrStdout()}

	form, err := LoadForm(path)
	if err != nil {
		return err
	}
	engine.Repair(form)
	if err := edit(form); err != nil {
		return WrapExitError(ExitCommandError, "edit rejected", err)
	}

	if out.json() {
		return out.encode(CLIResponse{Status: "ok", Data: form})
	}
	return WriteForm(out.w, form)
}

func parseOrdinals(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, NewExitError(ExitCommandError, "ordinal must be a number: "+a)
		}
		out[i] = n
	}
	return out, nil
}
