package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/lattermill/paperdex/internal/config"
	"github.com/lattermill/paperdex/query"
	"github.com/lattermill/paperdex/store"
)

var queryLimit int

// queryResult is the envelope printed by every query subcommand.
type queryResult struct {
	QueryType  string            `json:"query_type"`
	Parameters map[string]string `json:"parameters"`
	Results    any               `json:"results"`
	Count      int               `json:"count"`
	ElapsedMS  int64             `json:"execution_time_ms"`
}

var recentCmd = &cobra.Command{
	Use:   "recent [category]",
	Short: "Most recent papers in a category, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, "recent", map[string]string{"category": args[0]},
			func(r *query.Router) (any, int, error) {
				results, err := r.RecentInCategory(cmd.Context(), args[0], queryLimit)
				return results, len(results), err
			})
	},
}

var authorCmd = &cobra.Command{
	Use:   "author [name]",
	Short: "Papers by an author, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, "author", map[string]string{"name": args[0]},
			func(r *query.Router) (any, int, error) {
				results, err := r.ByAuthor(cmd.Context(), args[0], queryLimit)
				return results, len(results), err
			})
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Fetch one paper by id, including its abstract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, "get", map[string]string{"id": args[0]},
			func(r *query.Router) (any, int, error) {
				rec, err := r.ByID(cmd.Context(), args[0])
				if err != nil {
					return nil, 0, err
				}
				return []any{rec}, 1, nil
			})
	},
}

var daterangeCmd = &cobra.Command{
	Use:   "daterange [category] [start] [end]",
	Short: "Papers in a category within an inclusive date range",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]string{"category": args[0], "start": args[1], "end": args[2]}
		return runQuery(cmd, "daterange", params,
			func(r *query.Router) (any, int, error) {
				results, err := r.DateRange(cmd.Context(), args[0], args[1], args[2])
				return results, len(results), err
			})
	},
}

var keywordCmd = &cobra.Command{
	Use:   "keyword [term]",
	Short: "Papers whose abstracts feature a keyword, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, "keyword", map[string]string{"keyword": args[0]},
			func(r *query.Router) (any, int, error) {
				results, err := r.ByKeyword(cmd.Context(), args[0], queryLimit)
				return results, len(results), err
			})
	},
}

func init() {
	for _, c := range []*cobra.Command{recentCmd, authorCmd, keywordCmd} {
		c.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (0 = server default)")
	}
	rootCmd.AddCommand(recentCmd, authorCmd, getCmd, daterangeCmd, keywordCmd)
}

func runQuery(cmd *cobra.Command, queryType string, params map[string]string,
	run func(*query.Router) (any, int, error)) error {

	ctx := cmd.Context()

	common := config.LoadCommon()
	resolveCommon(&common)

	router, err := newRouter(ctx, common, store.DefaultConfig())
	if err != nil {
		return err
	}

	start := time.Now()
	results, count, err := run(router)
	if err != nil {
		return err
	}

	out := queryResult{
		QueryType:  queryType,
		Parameters: params,
		Results:    results,
		Count:      count,
		ElapsedMS:  time.Since(start).Milliseconds(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
