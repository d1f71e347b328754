package internal

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deevus/sankhya-tui/sankhya"
	"gopkg.in/yaml.v3"
)

// Export formats accepted by ExportSummary.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Date layouts used for display (pt-BR).
const (
	displayDate     = "02/01/2006"
	displayDateTime = "02/01/2006 15:04:05"
)

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(displayDate)
}

// FormatDateTime renders t as dd/mm/yyyy hh:mm:ss.
func FormatDateTime(t time.Time) string {
	return t.Format(displayDateTime)
}

// FormatWireDate converts a YYYY-MM-DD planning date to dd/mm/yyyy. Values
// that do not parse are returned unchanged.
func FormatWireDate(s string) string {
	t, err := time.Parse(sankhya.DateLayout, s)
	if err != nil {
		return s
	}
	return FormatDate(t)
}

// MarshalSummary encodes s in the given format.
func MarshalSummary(s *sankhya.Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML, "yml":
		return yaml.Marshal(s)
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"status", "nuplan", "idiproc", "erro"})
		for _, op := range s.Created {
			_ = w.Write([]string{"created", string(op.PlanID), string(op.OpID), ""})
		}
		for _, f := range s.Failures {
			_ = w.Write([]string{"failed", string(f.PlanID), "", f.Error})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// ExportSummary writes s into dir as summary-YYYYMMDD-HHMMSS.<format> and
// returns the written path.
func ExportSummary(dir, format string, s *sankhya.Summary, now time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("no summary to export")
	}
	format = strings.ToLower(format)
	if format == "" {
		format = FormatJSON
	}
	data, err := MarshalSummary(s, format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	ext := format
	if ext == "yml" {
		ext = FormatYAML
	}
	path := filepath.Join(dir, fmt.Sprintf("summary-%s.%s", now.Format("20060102-150405"), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// SummaryText renders s as plain text for the clipboard.
func SummaryText(s *sankhya.Summary) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Created (%d)\n", s.TotalCreated)
	for _, op := range s.Created {
		fmt.Fprintf(&b, "NUPLAN: %s -> OP: %s\n", op.PlanID, op.OpID)
	}
	fmt.Fprintf(&b, "Failures (%d)\n", s.TotalFailures)
	for _, f := range s.Failures {
		fmt.Fprintf(&b, "NUPLAN: %s: %s\n", f.PlanID, f.Error)
	}
	return b.String()
}
