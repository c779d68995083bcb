package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"formflow/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool             `json:"valid"`
	Problems []engine.Problem `json:"problems,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <form.yaml>",
		Short: "Report dangling jumps and other structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := &outputFormatter{format: opts.Format, w: cmd.OutOrStdout()}

	form, err := LoadForm(path)
	if err != nil {
		return err
	}

	problems := engine.Check(form)
	result := ValidationResult{Valid: len(problems) == 0, Problems: problems}

	if out.json() {
		status := "ok"
		if !result.Valid {
			status = "error"
		}
		if err := out.encode(CLIResponse{Status: status, Data: result}); err != nil {
			return err
		}
	} else if result.Valid {
		out.printf("✓ %s: %d questions, no problems\n", form.Name, form.Len())
	} else {
		for _, p := range problems {
			out.printf("%s\n", p)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d problem(s) found", len(problems)))
	}
	return nil
}
