package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// printer writes either the raw result as JSON or a text rendering of it.
type printer struct {
	format string
	w      io.Writer
}

func (p printer) print(data any, text func(w io.Writer)) error {
	if p.format == "json" {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	text(p.w)
	return nil
}

func line(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
