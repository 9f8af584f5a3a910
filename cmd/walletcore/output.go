package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func out(w io.Writer, format string, a ...any) { fmt.Fprintf(w, format, a...) }
func outln(w io.Writer, a ...any)              { fmt.Fprintln(w, a...) }

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
