// Package output renders the task list for the list command.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how a task list is printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text|json|yaml)", s)
	}
}

// Write prints texts to w in format.
//
// text prints one numbered line per task, or "No tasks." when empty. json
// prints the same array shape that is persisted. yaml prints a sequence.
func Write(w io.Writer, format Format, texts []string) error {
	if texts == nil {
		texts = []string{}
	}

	switch format {
	case FormatText, "":
		return writeText(w, texts)
	case FormatJSON:
		data, err := json.MarshalIndent(texts, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal tasks: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(texts); err != nil {
			return fmt.Errorf("encode tasks: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, texts []string) error {
	if len(texts) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	for i, text := range texts {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, text); err != nil {
			return err
		}
	}
	return nil
}
