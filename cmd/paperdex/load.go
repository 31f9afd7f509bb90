package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattermill/paperdex/ingest"
	"github.com/lattermill/paperdex/internal/config"
	"github.com/lattermill/paperdex/internal/logger"
	"github.com/lattermill/paperdex/store"
	"github.com/lattermill/paperdex/store/dynamo"
)

var loadJSON bool

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a JSON file of paper records into the table",
	Long: `Reads a JSON array of paper records, expands each into its canonical,
category, author, and keyword entries, and writes them with no-overwrite
semantics. Re-running a load is safe: existing entries are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadJSON, "json", false, "output the load report as JSON")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.New("paperdex")

	cfg, err := config.LoadLoader()
	if err != nil {
		return err
	}
	resolveCommon(&cfg.Common)

	client, err := newClient(ctx, cfg.Region)
	if err != nil {
		return err
	}
	storeCfg := store.DefaultConfig()
	storeCfg.TopKeywords = cfg.TopKeywords
	s := store.NewWithLogger(dynamo.New(client, cfg.Table, log), storeCfg, log)

	loader := ingest.NewLoader(s,
		ingest.WithConcurrency(cfg.Concurrency),
		ingest.WithLogger(log),
	)

	report, err := loader.LoadFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	if loadJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Loaded %d/%d records (%d items, factor %.1fx)\n",
		report.Loaded, report.Records, report.Items, report.Factor())
	cmd.Printf("  canonical: %d  category: %d  author: %d  keyword: %d\n",
		report.CanonicalItems, report.CategoryItems, report.AuthorItems, report.KeywordItems)
	for _, re := range report.Errors {
		cmd.Printf("  rejected %s: %s\n", re.PaperID, re.Reason)
	}
	return nil
}
