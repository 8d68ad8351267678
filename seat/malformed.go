package seat

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// WriteMalformedSection appends one section describing t's malformed rows to w.
// A section is always written, so the log shows every loader invocation.
func WriteMalformedSection(w io.Writer, t *RoundTable) error {
	if len(t.Malformed) == 0 {
		_, err := fmt.Fprintf(w, "No malformed rows found in %s\n", t.Schema.File)
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\nMalformed rows in %s (expected %d fields):\n", t.Schema.File, t.Schema.Width())
	for _, m := range t.Malformed {
		fmt.Fprintf(&b, "line %d (%d fields): %s\n", m.Line, len(m.Fields), strings.Join(m.Fields, ","))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// AppendMalformedLog opens path in append mode and writes one section per table.
func AppendMalformedLog(path string, tables ...*RoundTable) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening malformed-row log: %w", err)
	}
	for _, t := range tables {
		if err := WriteMalformedSection(file, t); err != nil {
			_ = file.Close()
			return fmt.Errorf("writing malformed-row log: %w", err)
		}
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing malformed-row log: %w", err)
	}
	return nil
}
