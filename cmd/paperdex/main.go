// Command paperdex manages the paper index: table setup, batch ingestion,
// the HTTP API, and ad-hoc queries against the five access patterns.
package main

import (
	"context"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/lattermill/paperdex/internal/config"
	"github.com/lattermill/paperdex/internal/logger"
	"github.com/lattermill/paperdex/query"
	"github.com/lattermill/paperdex/store"
	"github.com/lattermill/paperdex/store/dynamo"
)

var (
	flagTable  string
	flagRegion string
)

var rootCmd = &cobra.Command{
	Use:           "paperdex",
	Short:         "Single-table paper index backed by DynamoDB",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTable, "table", "", "DynamoDB table name (defaults to PAPERDEX_TABLE)")
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", "", "AWS region (defaults to AWS_REGION)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.New("paperdex")
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// resolveCommon applies flag overrides on top of environment configuration.
func resolveCommon(c *config.Common) {
	if flagTable != "" {
		c.Table = flagTable
	}
	if flagRegion != "" {
		c.Region = flagRegion
	}
}

// newClient builds a DynamoDB client for the configured region.
func newClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

// newRouter wires a query router over the DynamoDB backend.
func newRouter(ctx context.Context, common config.Common, cfg store.Config) (*query.Router, error) {
	log := logger.New("paperdex")
	client, err := newClient(ctx, common.Region)
	if err != nil {
		return nil, err
	}
	backend := dynamo.New(client, common.Table, log)
	s := store.NewWithLogger(backend, cfg, log)
	return query.NewRouter(s, log), nil
}
