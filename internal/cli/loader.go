package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"formflow/internal/model"
)

// LoadForm reads a YAML form file. Question ordinals follow file order;
// jump targets are taken as written so problems in them stay visible.
func LoadForm(path string) (*model.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read form", err)
	}
	return ParseForm(data)
}

// ParseForm decodes a YAML form document.
func ParseForm(data []byte) (*model.Form, error) {
	var form model.Form
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&form); err != nil {
		if err == io.EOF {
			return nil, NewExitError(ExitCommandError, "form file is empty")
		}
		return nil, WrapExitError(ExitCommandError, "parse form", err)
	}
	for i := range form.Questions {
		form.Questions[i].Ordinal = i
	}
	return &form, nil
}

// WriteForm encodes form as YAML.
func WriteForm(w io.Writer, form *model.Form) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(form); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return enc.Close()
}
