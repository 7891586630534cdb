package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/password-saver/internal/models"
	srvErrors "github.com/kubev2v/password-saver/pkg/errors"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	SheetName = "Passwords"
	fileMode  = 0600
)

var header = []string{"site", "username", "password"}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", srvErrors.NewInvalidArgumentError("format", fmt.Sprintf("%q is not one of json, csv, xlsx", s))
	}
}

// Write encodes entries to w in the given format.
func Write(w io.Writer, format Format, entries []models.Entry) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, entries)
	case FormatCSV:
		return writeCSV(w, entries)
	case FormatXLSX:
		return writeXLSX(w, entries)
	default:
		return srvErrors.NewInvalidArgumentError("format", fmt.Sprintf("%q is not one of json, csv, xlsx", format))
	}
}

// WriteFile replaces path atomically with the encoded entries, readable by the owner only.
func WriteFile(path string, format Format, entries []models.Entry) error {
	var buf bytes.Buffer
	if err := Write(&buf, format, entries); err != nil {
		return err
	}
	// atomic.WriteFile keeps the mode of a file it replaces.
	if _, err := os.Stat(path); err == nil {
		if err := os.Chmod(path, fileMode); err != nil {
			return fmt.Errorf("failed to restrict %s: %w", path, err)
		}
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return os.Chmod(path, fileMode)
}

// ReadJSON decodes a JSON export. Sites are trimmed and records left
// without a site are rejected.
func ReadJSON(r io.Reader) ([]models.Entry, error) {
	var entries []models.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	for i := range entries {
		entries[i].Site = strings.TrimSpace(entries[i].Site)
		if err := entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, srvErrors.NewInvalidArgumentError("site", "must not be empty"))
		}
	}
	return entries, nil
}

func writeJSON(w io.Writer, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func writeCSV(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Site, e.Username, e.Secret}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, entries []models.Entry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &row); err != nil {
		return err
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &[]any{e.Site, e.Username, e.Secret}); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
