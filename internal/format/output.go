package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Tabular is implemented by payloads that have a table rendering.
type Tabular interface {
	Table() (headers []string, rows [][]string)
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - table (payloads implementing Tabular; anything else falls back to JSON)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "table":
		t, ok := v.(Tabular)
		if !ok {
			return WriteJSON(w, v, true)
		}
		headers, rows := t.Table()
		return WriteTable(w, headers, rows)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
