// Package paper defines the normalized paper record and its write-time
// fan-out into physical store items.
package paper

import (
	"fmt"

	"github.com/lattermill/paperdex/internal/keys"
	"github.com/lattermill/paperdex/store"
)

// Record is the normalized input: one paper as produced by an external
// ingestion collaborator. The id is globally unique and immutable once
// stored.
type Record struct {
	ID         string   `json:"arxiv_id"`
	Title      string   `json:"title"`
	Abstract   string   `json:"abstract"`
	Categories []string `json:"categories"`
	Authors    []string `json:"authors"`

	// Published is the publication timestamp; the first ten characters
	// must form a YYYY-MM-DD date.
	Published string `json:"published"`
}

// Date returns the YYYY-MM-DD publication date used in sort keys.
func (r Record) Date() string {
	if len(r.Published) < len(keys.DateLayout) {
		return r.Published
	}
	return r.Published[:len(keys.DateLayout)]
}

// Summary is the read-optimized projection carried by category, author, and
// keyword entries.
type Summary struct {
	ID         string   `json:"arxiv_id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Categories []string `json:"categories"`
	Published  string   `json:"published"`
}

// SummaryOf projects a stored item onto its summary fields.
func SummaryOf(it store.Item) Summary {
	return Summary{
		ID:         it.PaperID,
		Title:      it.Title,
		Authors:    it.Authors,
		Categories: it.Categories,
		Published:  it.Published,
	}
}

// RecordOf reconstructs the full record from a canonical item.
func RecordOf(it store.Item) Record {
	return Record{
		ID:         it.PaperID,
		Title:      it.Title,
		Abstract:   it.Abstract,
		Categories: it.Categories,
		Authors:    it.Authors,
		Published:  it.Published,
	}
}

// validate rejects records that cannot produce unambiguous keys.
func (r Record) validate() error {
	if _, err := keys.Partition(keys.KindID, r.ID); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	if _, err := keys.Sort(r.Date(), r.ID); err != nil {
		return fmt.Errorf("record %q: %w", r.ID, err)
	}
	return nil
}
