// Package storage persists extraction results as CSV exports and reads
// them back for batch resumption.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
)

// ErrAppIDNotFound is returned by LoadAppIDs when a requested
// start-from id is not present in the source file.
var ErrAppIDNotFound = errors.New("app id not found")

// Writer appends rows to a CSV file, writing the header once for a new
// or empty file. Safe for use from multiple goroutines.
type Writer struct {
	mu      sync.Mutex
	file    *os.File
	csv     *csv.Writer
	columns []string
	// header still owed before the first row
	needHeader bool
}

// NewWriter opens (or creates) the file at path for appending.
func NewWriter(path string, columns []string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return &Writer{
		file:       file,
		csv:        csv.NewWriter(file),
		columns:    columns,
		needHeader: info.Size() == 0,
	}, nil
}

// Write appends one row and flushes it, so a crash mid-batch loses at
// most the row being written.
func (w *Writer) Write(values []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(values) != len(w.columns) {
		return fmt.Errorf("row has %d values, header has %d columns", len(values), len(w.columns))
	}

	if w.needHeader {
		if err := w.csv.Write(w.columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.needHeader = false
	}

	if err := w.csv.Write(values); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	w.csv.Flush()
	return w.csv.Error()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// LoadAppIDs reads app ids from a charts export, in file order, skipping
// rows whose id does not parse. With startFrom > 0 the result begins at
// that id; ErrAppIDNotFound is returned when it is not in the file.
func LoadAppIDs(path string, startFrom int64) ([]int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Chart names can contain commas and quotes; let the csv package
	// handle quoting, but tolerate ragged rows.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idCol := slices.Index(header, "app_id")
	if idCol < 0 {
		return nil, fmt.Errorf("%s has no app_id column", path)
	}

	var appIDs []int64
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if idCol >= len(row) {
			continue
		}
		id, err := strconv.ParseInt(row[idCol], 10, 64)
		if err != nil {
			continue
		}
		appIDs = append(appIDs, id)
	}

	if startFrom <= 0 {
		return appIDs, nil
	}

	idx := slices.Index(appIDs, startFrom)
	if idx < 0 {
		return nil, fmt.Errorf("start_from app_id=%d: %w", startFrom, ErrAppIDNotFound)
	}
	return appIDs[idx:], nil
}
