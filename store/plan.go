package store

// Plan is the static description of one index: which attributes form its
// partition and sort key, and the DynamoDB index it maps to. The base plan
// has an empty IndexName and addresses the table itself.
type Plan struct {
	// Name is the logical plan name.
	Name string

	// IndexName is the DynamoDB GSI name, empty for the base table.
	IndexName string

	// PartitionAttr and SortAttr are the key attribute names.
	PartitionAttr string
	SortAttr      string
}

var (
	// BasePlan addresses the table itself: category entries partitioned by
	// CATEGORY#<c> and per-paper rows partitioned by ID#<id>.
	BasePlan = Plan{Name: "base", PartitionAttr: "PK", SortAttr: "SK"}

	// AuthorPlan groups author entries under AUTHOR#<a>, sorted by date#id.
	AuthorPlan = Plan{Name: "author", IndexName: "AuthorIndex", PartitionAttr: "GSI1PK", SortAttr: "GSI1SK"}

	// PaperPlan groups the canonical and category entries of one paper
	// under ID#<id>. Used to enumerate derived rows for cascade removal.
	PaperPlan = Plan{Name: "paper", IndexName: "PaperIndex", PartitionAttr: "GSI2PK", SortAttr: "GSI2SK"}

	// KeywordPlan groups keyword entries under KEYWORD#<k>, sorted by date#id.
	KeywordPlan = Plan{Name: "keyword", IndexName: "KeywordIndex", PartitionAttr: "GSI3PK", SortAttr: "GSI3SK"}
)

// Plans returns every plan, base table first.
func Plans() []Plan {
	return []Plan{BasePlan, AuthorPlan, PaperPlan, KeywordPlan}
}

// Keys returns the item's key pair under this plan. Items that do not
// participate in the index return an empty partition key.
func (p Plan) Keys(it Item) (partition, sort string) {
	switch p.IndexName {
	case AuthorPlan.IndexName:
		return it.GSI1PK, it.GSI1SK
	case PaperPlan.IndexName:
		return it.GSI2PK, it.GSI2SK
	case KeywordPlan.IndexName:
		return it.GSI3PK, it.GSI3SK
	default:
		return it.PK, it.SK
	}
}
