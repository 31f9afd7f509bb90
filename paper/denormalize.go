package paper

import (
	"fmt"
	"strings"

	"github.com/lattermill/paperdex/internal/keys"
	"github.com/lattermill/paperdex/internal/keyword"
	"github.com/lattermill/paperdex/store"
)

// Expand fans one record out into its full physical item set: one canonical
// item, one category entry per category, one author-index entry per author,
// and one keyword-index entry per extracted keyword (at most topN).
//
// Expand is a pure function: no I/O, and byte-identical output for identical
// input, so the store's no-overwrite insert policy silently absorbs
// re-ingestion of the same record.
func Expand(r Record, topN int) ([]store.Item, error) {
	keywords := keyword.Extract(r.Abstract, topN)
	return assemble(r, keywords)
}

// assemble builds the item set from a record and an already-extracted
// keyword list.
func assemble(r Record, keywords []string) ([]store.Item, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	idPK, err := keys.Partition(keys.KindID, r.ID)
	if err != nil {
		return nil, err
	}
	dateSK, err := keys.Sort(r.Date(), r.ID)
	if err != nil {
		return nil, err
	}

	items := make([]store.Item, 0, 1+len(r.Categories)+len(r.Authors)+len(keywords))

	// Canonical item: full payload, keyed (ID#<id>, ID#<id>), mirrored
	// into the PaperIndex so every base-collection row of the paper can be
	// enumerated under one index partition.
	items = append(items, store.Item{
		PK:         idPK,
		SK:         idPK,
		GSI2PK:     idPK,
		GSI2SK:     idPK,
		PaperID:    r.ID,
		Title:      r.Title,
		Authors:    r.Authors,
		Categories: r.Categories,
		Published:  r.Published,
		Abstract:   r.Abstract,
		Keywords:   keywords,
	})

	for _, category := range r.Categories {
		catPK, err := keys.Partition(keys.KindCategory, category)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", r.ID, err)
		}
		items = append(items, store.Item{
			PK:         catPK,
			SK:         dateSK,
			GSI2PK:     idPK,
			GSI2SK:     catPK,
			PaperID:    r.ID,
			Title:      r.Title,
			Authors:    r.Authors,
			Categories: r.Categories,
			Published:  r.Published,
		})
	}

	for _, author := range r.Authors {
		authorPK, err := keys.Partition(keys.KindAuthor, author)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", r.ID, err)
		}
		items = append(items, store.Item{
			PK:         idPK,
			SK:         authorPK + keys.Delimiter + r.Date(),
			GSI1PK:     authorPK,
			GSI1SK:     dateSK,
			PaperID:    r.ID,
			Title:      r.Title,
			Authors:    r.Authors,
			Categories: r.Categories,
			Published:  r.Published,
		})
	}

	for _, kw := range keywords {
		kwPK, err := keys.Partition(keys.KindKeyword, strings.ToLower(kw))
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", r.ID, err)
		}
		items = append(items, store.Item{
			PK:         idPK,
			SK:         kwPK + keys.Delimiter + r.Date(),
			GSI3PK:     kwPK,
			GSI3SK:     dateSK,
			PaperID:    r.ID,
			Title:      r.Title,
			Authors:    r.Authors,
			Categories: r.Categories,
			Published:  r.Published,
		})
	}

	return items, nil
}
