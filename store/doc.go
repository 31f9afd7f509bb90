// Package store provides the single-table, multi-index data access layer for
// the paper collection.
//
// One logical paper is denormalized at write time into several physical
// items: a canonical full-payload item, one read-optimized item per category,
// and index entries per author and extracted keyword. Each supported access
// pattern reads exactly one partition of one index; there is no query
// planner.
//
// # Key design
//
// Partition keys encode a grouping dimension as "<KIND>#<value>" (ID,
// CATEGORY, AUTHOR, KEYWORD). Sort keys encode "<YYYY-MM-DD>#<id>" so that
// lexicographic order equals chronological order, with the id as a
// deterministic tiebreak.
//
// # Index plans
//
// [Plan] describes each index declaratively: [BasePlan] (the table itself),
// [AuthorPlan], [PaperPlan], and [KeywordPlan]. The query.Router maps every
// access pattern to one plan and one query.
//
// # Backend
//
// [Backend] is the external collaborator providing put-if-absent, point get,
// ordered range query, scan, and delete. The DynamoDB implementation lives in
// store/dynamo; an in-memory implementation for tests lives in store/memory.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrMalformedKey] - a key component is empty or contains the delimiter
//   - [ErrNotFound] - point lookup found no item
//   - [ErrInvalidArgument] - bad limit or date range
//   - [ErrIndexMissing] - the queried index is not configured on the table
//   - [ErrBackendUnavailable] - the backend cannot be reached
//
// Duplicate keys are not an error: [Store.Put] absorbs them so that loads are
// safe to re-run.
package store
