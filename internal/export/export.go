// Package export writes a task view in a portable format.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists the supported export formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTOML}

// TOML has no top-level arrays.
type tomlDoc struct {
	Tasks []model.Task `toml:"tasks"`
}

func Write(w io.Writer, format string, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(tomlDoc{Tasks: tasks})
	default:
		return fmt.Errorf("%w: unsupported export format %q (want one of %s)",
			model.ErrValidation, format, strings.Join(Formats, ", "))
	}
}
