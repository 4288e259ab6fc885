// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/fallback"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

const testCatalog = `title,description
Alien,a crew in deep space hunted by a creature aboard their ship
Aliens,marines in deep space hunted by creatures aboard a colony
Notting Hill,a london bookseller falls in love with a famous actress
`

// workspace runs the test in a temp dir holding movies.csv, with the
// environment pinned to the file cache and the hashing encoder.
// CATALOG_PATH is left to each test.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "movies.csv"), testCatalog)

	t.Setenv("CONFIG_PATH", filepath.Join(dir, "absent.yaml"))
	t.Setenv("CACHE_BACKEND", "file")
	t.Setenv("CACHE_PATH", filepath.Join(dir, "embeddings.cache"))
	t.Setenv("EMBEDDING_PROVIDER", "hashing")
	t.Setenv("EMBEDDING_DIMENSIONS", "256")
	t.Setenv("FALLBACK_ENABLED", "false")
	t.Setenv("QDRANT_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	dir := workspace(t)
	t.Setenv("CATALOG_PATH", filepath.Join(dir, "movies.csv"))

	t.Run("local match", func(t *testing.T) {
		out, err := run(t, "", "recommend", "alien", "-k", "1")
		if err != nil {
			t.Fatalf("recommend error = %v", err)
		}
		if !strings.Contains(out, `Because you liked "Alien"`) {
			t.Errorf("output missing matched title:\n%s", out)
		}
		if !strings.Contains(out, "Aliens") {
			t.Errorf("output missing Aliens:\n%s", out)
		}
		if strings.Contains(out, "Notting Hill") {
			t.Errorf("k=1 printed more than one movie:\n%s", out)
		}
	})

	t.Run("multi-word title", func(t *testing.T) {
		out, err := run(t, "", "recommend", "Notting", "Hill", "-k", "1")
		if err != nil {
			t.Fatalf("recommend error = %v", err)
		}
		if !strings.Contains(out, `Because you liked "Notting Hill"`) {
			t.Errorf("output = %s", out)
		}
	})

	t.Run("unknown title without fallback", func(t *testing.T) {
		out, err := run(t, "", "recommend", "Casablanca")
		if err != nil {
			t.Fatalf("recommend error = %v", err)
		}
		if !strings.Contains(out, `No recommendations for "Casablanca"`) {
			t.Errorf("output = %s", out)
		}
	})

	t.Run("json output", func(t *testing.T) {
		out, err := run(t, "", "--json", "recommend", "Aliens", "-k", "2")
		if err != nil {
			t.Fatalf("recommend error = %v", err)
		}
		var outcome fallback.Outcome
		if err := json.Unmarshal([]byte(out), &outcome); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if outcome.Source != fallback.SourceLocal {
			t.Errorf("Source = %q, want local", outcome.Source)
		}
		for _, title := range outcome.Titles() {
			if title == "Aliens" {
				t.Error("query title returned as its own recommendation")
			}
		}
		if len(outcome.Titles()) != 2 {
			t.Errorf("titles = %v, want 2", outcome.Titles())
		}
	})

	t.Run("missing title", func(t *testing.T) {
		if _, err := run(t, "", "recommend"); err == nil {
			t.Error("expected an argument error")
		}
	})
}

func TestRecommendCommand_Fallback(t *testing.T) {
	dir := workspace(t)
	t.Setenv("CATALOG_PATH", filepath.Join(dir, "movies.csv"))

	tmdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/movie":
			if r.URL.Query().Get("query") != "Casablanca" {
				t.Errorf("query = %q", r.URL.Query().Get("query"))
			}
			_, _ = io.WriteString(w, `{"results":[{"id":289,"title":"Casablanca","vote_average":8.2,"release_date":"1942-11-26"}]}`)
		case "/movie/289/videos":
			_, _ = io.WriteString(w, `{"results":[{"key":"BkL9l7qovsE","site":"YouTube","type":"Trailer"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer tmdb.Close()

	t.Setenv("FALLBACK_ENABLED", "true")
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("TMDB_BASE_URL", tmdb.URL)

	out, err := run(t, "", "recommend", "Casablanca", "--trailers")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	for _, want := range []string{"is not in the catalog", "Casablanca (1942)", "youtube.com/embed/BkL9l7qovsE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "", "recommend", "Alien", "-k", "1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "TMDb") {
		t.Errorf("a catalog title reached the fallback:\n%s", out)
	}
}

func TestIndexCommands(t *testing.T) {
	dir := workspace(t)
	t.Setenv("CATALOG_PATH", filepath.Join(dir, "movies.csv"))

	out, err := run(t, "", "index", "inspect")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	if !strings.Contains(out, "cache:       empty") {
		t.Errorf("inspect before build = %s", out)
	}

	out, err = run(t, "", "--json", "index", "build")
	if err != nil {
		t.Fatalf("build error = %v", err)
	}
	var stats recommend.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if stats.Entries != 3 || stats.Dimensions != 256 || stats.Source != recommend.SourceEncoder {
		t.Errorf("first build stats = %+v", stats)
	}

	out, err = run(t, "", "--json", "index", "build")
	if err != nil {
		t.Fatalf("second build error = %v", err)
	}
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Source != recommend.SourceCache {
		t.Errorf("second build Source = %q, want cache", stats.Source)
	}

	out, err = run(t, "", "--json", "index", "inspect")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	var report cacheReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatal(err)
	}
	if !report.Present || !report.Fresh || report.Rows != 3 || report.Dimensions != 256 {
		t.Errorf("report = %+v", report)
	}

	writeFile(t, "movies.csv", testCatalog+"Up,an old man ties balloons to his house\n")
	out, err = run(t, "", "index", "inspect")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "fresh:       false") {
		t.Errorf("inspect after catalog change = %s", out)
	}
}

func TestFingerprintCommand(t *testing.T) {
	dir := workspace(t)
	path := filepath.Join(dir, "movies.csv")
	want := catalog.FingerprintBytes([]byte(testCatalog))

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "file", args: []string{"fingerprint", path}, want: want + "  3 rows"},
		{name: "stdin", args: []string{"fingerprint", "-"}, stdin: testCatalog, want: want + "  3 rows"},
		{
			name: "missing file matches empty catalog",
			args: []string{"fingerprint", filepath.Join(dir, "nope.csv")},
			want: catalog.FingerprintBytes(nil) + "  0 rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("fingerprint error = %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("schema error", func(t *testing.T) {
		if _, err := run(t, "name,plot\nx,y\n", "fingerprint", "-"); err == nil {
			t.Error("expected a schema error")
		}
	})
}

func TestEnvFile(t *testing.T) {
	dir := workspace(t)
	if _, ok := os.LookupEnv("CATALOG_PATH"); ok {
		t.Skip("CATALOG_PATH is set in the environment")
	}
	t.Cleanup(func() { _ = os.Unsetenv("CATALOG_PATH") })

	writeFile(t, filepath.Join(dir, "other.csv"), "title,description\nUp,balloons\nUpside Down,twin worlds\n")
	writeFile(t, filepath.Join(dir, "custom.env"), "CATALOG_PATH="+filepath.Join(dir, "other.csv")+"\n")

	out, err := run(t, "", "--env-file", "custom.env", "--json", "index", "build")
	if err != nil {
		t.Fatalf("build error = %v", err)
	}
	var stats recommend.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2 from the .env catalog", stats.Entries)
	}

	t.Run("explicit missing file fails", func(t *testing.T) {
		if _, err := run(t, "", "--env-file", "missing.env", "fingerprint", "-"); err == nil {
			t.Error("expected an error for a missing --env-file")
		}
	})
}
