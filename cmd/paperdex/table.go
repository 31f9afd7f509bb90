package main

import (
	"github.com/spf13/cobra"

	"github.com/lattermill/paperdex/internal/config"
	"github.com/lattermill/paperdex/internal/logger"
	"github.com/lattermill/paperdex/store/dynamo"
)

var tableRecreate bool

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Create the paper table and its secondary indexes",
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().BoolVar(&tableRecreate, "recreate", false, "delete the table first if it exists")
	rootCmd.AddCommand(tableCmd)
}

func runTable(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.New("paperdex")

	common := config.LoadCommon()
	resolveCommon(&common)

	client, err := newClient(ctx, common.Region)
	if err != nil {
		return err
	}

	log.Info("ensuring table", "table", common.Table, "recreate", tableRecreate)
	if err := dynamo.EnsureTable(ctx, client, common.Table, tableRecreate); err != nil {
		return err
	}
	cmd.Printf("table %s ready\n", common.Table)
	return nil
}
