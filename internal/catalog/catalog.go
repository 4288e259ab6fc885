// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

// Entry is a single movie in the catalog.
type Entry struct {
	// Index is the 0-based position of the entry in its catalog.
	Index int `json:"index"`

	// Title is the movie title exactly as it appears in the source.
	Title string `json:"title"`

	// Description is the free-text synopsis used for embedding.
	Description string `json:"description"`
}

// EmbeddingText returns the text fed to the encoder for this entry.
// The separator is a period followed by a single space.
func (e Entry) EmbeddingText() string {
	return e.Title + ". " + e.Description
}

// Catalog is an immutable ordered collection of entries.
type Catalog struct {
	entries []Entry
}

// New builds a catalog from (title, description) pairs, assigning indices in order.
func New(pairs ...[2]string) *Catalog {
	entries := make([]Entry, len(pairs))
	for i, p := range pairs {
		entries[i] = Entry{Index: i, Title: p[0], Description: p[1]}
	}
	return &Catalog{entries: entries}
}

// Len returns the number of entries. A nil catalog has zero entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// At returns the entry at index i. It panics if i is out of range.
func (c *Catalog) At(i int) Entry {
	return c.entries[i]
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Titles returns every title in catalog order.
func (c *Catalog) Titles() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Title
	}
	return out
}

// Texts returns the encoder input text for every entry in catalog order.
func (c *Catalog) Texts() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.EmbeddingText()
	}
	return out
}
