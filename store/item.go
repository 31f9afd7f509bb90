package store

import "strings"

// Item is the unit actually stored: one physical row of the paper table.
// A logical record fans out into one canonical item plus one item per
// category, author, and extracted keyword. (PK, SK) is unique across the
// whole collection.
type Item struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`

	// AuthorIndex keys, set on author entries only.
	GSI1PK string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK string `dynamodbav:"GSI1SK,omitempty"`

	// PaperIndex keys, set on canonical and category entries. They group
	// every base-collection row of one paper under its id partition.
	GSI2PK string `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK string `dynamodbav:"GSI2SK,omitempty"`

	// KeywordIndex keys, set on keyword entries only.
	GSI3PK string `dynamodbav:"GSI3PK,omitempty"`
	GSI3SK string `dynamodbav:"GSI3SK,omitempty"`

	PaperID    string   `dynamodbav:"paper_id"`
	Title      string   `dynamodbav:"title"`
	Authors    []string `dynamodbav:"authors"`
	Categories []string `dynamodbav:"categories"`
	Published  string   `dynamodbav:"published"`

	// Abstract and Keywords are carried by canonical items only.
	Abstract string   `dynamodbav:"abstract,omitempty"`
	Keywords []string `dynamodbav:"keywords,omitempty"`
}

// Key identifies one physical row.
type Key struct {
	PK string
	SK string
}

// Key returns the item's base-table key.
func (it Item) Key() Key {
	return Key{PK: it.PK, SK: it.SK}
}

// IsCanonical reports whether the item is the single full-payload entry of a
// paper, keyed (ID#<id>, ID#<id>).
func (it Item) IsCanonical() bool {
	return it.PK == it.SK && strings.HasPrefix(it.PK, "ID#")
}
