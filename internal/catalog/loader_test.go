// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields empty catalog", func(t *testing.T) {
		cat, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cat.Len() != 0 {
			t.Errorf("Len() = %d, want 0", cat.Len())
		}
	})

	t.Run("preserves row order and indices", func(t *testing.T) {
		path := writeFile(t, "movies.csv",
			"title,description\nInception,A thief...\nInterstellar,A team...\nUp,A widower...\n")

		cat, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		want := []string{"Inception", "Interstellar", "Up"}
		if got := cat.Titles(); strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("Titles() = %v, want %v", got, want)
		}
		for i := 0; i < cat.Len(); i++ {
			if cat.At(i).Index != i {
				t.Errorf("At(%d).Index = %d", i, cat.At(i).Index)
			}
		}
	})

	t.Run("locates columns by name", func(t *testing.T) {
		path := writeFile(t, "movies.csv",
			"\ufeffyear, description ,title\n2009,A widower...,Up\n")

		cat, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cat.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", cat.Len())
		}
		e := cat.At(0)
		if e.Title != "Up" || e.Description != "A widower..." {
			t.Errorf("At(0) = %+v", e)
		}
	})

	t.Run("quoted fields keep commas and whitespace", func(t *testing.T) {
		path := writeFile(t, "movies.csv",
			"title,description\n\" Heat \",\"Cops, robbers, and coffee\"\n")

		cat, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := cat.At(0).Title; got != " Heat " {
			t.Errorf("Title = %q, want %q", got, " Heat ")
		}
		if got := cat.At(0).Description; got != "Cops, robbers, and coffee" {
			t.Errorf("Description = %q", got)
		}
	})

	t.Run("short rows get empty fields", func(t *testing.T) {
		path := writeFile(t, "movies.csv", "title,description\nAlien\n")

		cat, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cat.At(0).Description != "" {
			t.Errorf("Description = %q, want empty", cat.At(0).Description)
		}
	})
}

func TestLoad_SchemaError(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantMissing []string
	}{
		{
			name:        "missing description",
			content:     "title,year\nUp,2009\n",
			wantMissing: []string{ColumnDescription},
		},
		{
			name:        "missing title",
			content:     "name,description\nUp,A widower\n",
			wantMissing: []string{ColumnTitle},
		},
		{
			name:        "missing both",
			content:     "a,b\n1,2\n",
			wantMissing: []string{ColumnTitle, ColumnDescription},
		},
		{
			name:        "case sensitive header",
			content:     "Title,Description\nUp,A widower\n",
			wantMissing: []string{ColumnTitle, ColumnDescription},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "movies.csv", tt.content)

			_, err := Load(path)
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("Load() error = %v, want ErrSchema", err)
			}
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("error %T is not *SchemaError", err)
			}
			if strings.Join(schemaErr.Missing, ",") != strings.Join(tt.wantMissing, ",") {
				t.Errorf("Missing = %v, want %v", schemaErr.Missing, tt.wantMissing)
			}
			if schemaErr.Path != path {
				t.Errorf("Path = %q, want %q", schemaErr.Path, path)
			}
		})
	}
}

func TestRead(t *testing.T) {
	t.Run("fingerprint covers the parsed bytes", func(t *testing.T) {
		content := "title,description\nHeat,Cops\nUp,A widower\n"
		path := writeFile(t, "movies.csv", content)

		cat, fp, err := Read(path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if cat.Len() != 2 || cat.At(1).Title != "Up" {
			t.Errorf("catalog = %v", cat.Titles())
		}
		if want := FingerprintBytes([]byte(content)); fp != want {
			t.Errorf("fingerprint = %s, want %s", fp, want)
		}

		// A later rewrite does not affect what was already read.
		if err := os.WriteFile(path, []byte("title,description\nHeat,Robbers\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if cat.At(0).Description != "Cops" {
			t.Errorf("Description = %q, want Cops", cat.At(0).Description)
		}
		if now, _ := Fingerprint(path); now == fp {
			t.Error("rewritten file kept the old fingerprint")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cat, fp, err := Read(filepath.Join(t.TempDir(), "missing.csv"))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if cat.Len() != 0 {
			t.Errorf("Len() = %d, want 0", cat.Len())
		}
		if fp != FingerprintBytes(nil) {
			t.Errorf("fingerprint = %s, want hash of empty input", fp)
		}
	})

	t.Run("schema error carries path", func(t *testing.T) {
		path := writeFile(t, "movies.csv", "name,year\nUp,2009\n")

		_, _, err := Read(path)
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("Read() error = %v, want *SchemaError", err)
		}
		if schemaErr.Path != path {
			t.Errorf("Path = %q, want %q", schemaErr.Path, path)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		cat, err := Parse(strings.NewReader(""))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if cat.Len() != 0 {
			t.Errorf("Len() = %d, want 0", cat.Len())
		}
	})

	t.Run("header only", func(t *testing.T) {
		cat, err := Parse(strings.NewReader("title,description\n"))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if cat.Len() != 0 {
			t.Errorf("Len() = %d, want 0", cat.Len())
		}
	})

	t.Run("malformed quoting", func(t *testing.T) {
		_, err := Parse(strings.NewReader("title,description\n\"Up,broken\n"))
		if err == nil {
			t.Fatal("Parse() expected error for unterminated quote")
		}
		if errors.Is(err, ErrSchema) {
			t.Errorf("malformed CSV should not be a schema error: %v", err)
		}
	})
}

func TestEntry_EmbeddingText(t *testing.T) {
	e := Entry{Title: "Up", Description: "A widower..."}
	if got := e.EmbeddingText(); got != "Up. A widower..." {
		t.Errorf("EmbeddingText() = %q", got)
	}

	cat := New([2]string{"Up", "A widower..."}, [2]string{"Heat", ""})
	texts := cat.Texts()
	if texts[0] != "Up. A widower..." || texts[1] != "Heat. " {
		t.Errorf("Texts() = %q", texts)
	}
}

func TestCatalog_NilSafe(t *testing.T) {
	var cat *Catalog
	if cat.Len() != 0 {
		t.Errorf("nil Len() = %d", cat.Len())
	}
	if cat.Titles() != nil || cat.Texts() != nil || cat.Entries() != nil {
		t.Error("nil catalog accessors should return nil")
	}
}
