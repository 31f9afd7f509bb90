package ingest

import "github.com/lattermill/paperdex/store"

// RecordError captures a single rejected record.
type RecordError struct {
	PaperID string `json:"paper_id"`
	Reason  string `json:"reason"`
}

// Report summarizes one batch load: how many records succeeded, how many
// were rejected, and the storage breakdown per entry kind.
type Report struct {
	Records int `json:"records"`
	Loaded  int `json:"loaded"`
	Failed  int `json:"failed"`

	Items          int `json:"items"`
	CanonicalItems int `json:"canonical_items"`
	CategoryItems  int `json:"category_items"`
	AuthorItems    int `json:"author_items"`
	KeywordItems   int `json:"keyword_items"`

	Errors []RecordError `json:"errors,omitempty"`
}

// NewReport creates a report for a batch of the given size.
func NewReport(records int) *Report {
	return &Report{Records: records}
}

// Factor returns the denormalization factor: physical items written per
// logical record loaded.
func (r *Report) Factor() float64 {
	if r.Loaded == 0 {
		return 0
	}
	return float64(r.Items) / float64(r.Loaded)
}

func (r *Report) recordSuccess(items []store.Item) {
	r.Loaded++
	r.Items += len(items)
	for _, it := range items {
		switch {
		case it.IsCanonical():
			r.CanonicalItems++
		case it.GSI1PK != "":
			r.AuthorItems++
		case it.GSI3PK != "":
			r.KeywordItems++
		default:
			r.CategoryItems++
		}
	}
}

func (r *Report) recordFailure(paperID string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, RecordError{PaperID: paperID, Reason: err.Error()})
}
