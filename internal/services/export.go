package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"alumni-form/internal/models"
)

// ErrNothingToExport is returned when every field is still empty.
var ErrNothingToExport = errors.New("no form data to export")

var filenameReplacer = strings.NewReplacer("/", "_", `\`, "_")

// ExportFilename builds alumni_<name>_<YYYY-MM-DD>.json, falling back to
// "data" when no name has been entered. The date is taken in UTC.
func ExportFilename(record models.FormRecord, now time.Time) string {
	name := record.FullName
	if name == "" {
		name = "data"
	}
	return fmt.Sprintf("alumni_%s_%s.json", filenameReplacer.Replace(name), now.UTC().Format("2006-01-02"))
}

// Export serializes record as an indented JSON document.
func Export(record models.FormRecord, now time.Time) (filename string, body []byte, err error) {
	if record.IsEmpty() {
		return "", nil, ErrNothingToExport
	}
	body, err = json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode form data: %w", err)
	}
	return ExportFilename(record, now), body, nil
}
