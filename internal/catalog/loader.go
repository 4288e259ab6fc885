// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Required column names.
const (
	ColumnTitle       = "title"
	ColumnDescription = "description"
)

const utf8BOM = "\ufeff"

// Load reads the catalog at path.
//
// A missing file yields an empty catalog and a nil error. A file lacking the
// title or description column fails with *SchemaError.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return parseFile(path, f)
}

// Read loads the catalog at path together with the fingerprint of the exact
// bytes that were parsed. The file is read once, so a concurrent rewrite can
// never pair one version's rows with another version's fingerprint.
//
// A missing file yields an empty catalog and FingerprintBytes(nil).
func Read(path string) (*Catalog, string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Catalog{}, FingerprintBytes(nil), nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read catalog: %w", err)
	}

	cat, err := parseFile(path, bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	return cat, FingerprintBytes(data), nil
}

func parseFile(path string, r io.Reader) (*Catalog, error) {
	cat, err := Parse(r)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Path = path
			return nil, schemaErr
		}
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse reads a catalog from r. The first record is the header.
// An empty input yields an empty catalog.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	titleCol, descCol := locateColumns(header)
	var missing []string
	if titleCol < 0 {
		missing = append(missing, ColumnTitle)
	}
	if descCol < 0 {
		missing = append(missing, ColumnDescription)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(entries)+1, err)
		}
		entries = append(entries, Entry{
			Index:       len(entries),
			Title:       field(record, titleCol),
			Description: field(record, descCol),
		})
	}

	return &Catalog{entries: entries}, nil
}

// locateColumns finds the title and description columns by name, returning -1
// for a column that is absent. The first matching header wins.
func locateColumns(header []string) (titleCol, descCol int) {
	titleCol, descCol = -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		switch strings.TrimSpace(name) {
		case ColumnTitle:
			if titleCol < 0 {
				titleCol = i
			}
		case ColumnDescription:
			if descCol < 0 {
				descCol = i
			}
		}
	}
	return titleCol, descCol
}

// field returns record[i], or "" for a short row.
func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
