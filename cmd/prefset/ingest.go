package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prefset/internal/ingest"
)

var ingestFull bool

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Synchronise the database with the preference set library",
		RunE:  runIngest,
	}
	cmd.Flags().BoolVar(&ingestFull, "full", false, "Force full re-ingestion (ignore incremental hashes)")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	result, err := ingest.Run(ctx, cfg, db, ingest.Options{Full: ingestFull, Logger: newLogger(cfg)})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Ingestion complete.")
	fmt.Fprintf(os.Stdout, "  Sets upserted: %d\n", result.SetsUpserted)
	fmt.Fprintf(os.Stdout, "  Sets removed:  %d\n", result.SetsRemoved)
	fmt.Fprintf(os.Stdout, "  Files skipped: %d\n", result.FilesSkipped)
	fmt.Fprintf(os.Stdout, "  Rejected:      %d\n", result.Rejected)

	if len(result.Issues) > 0 {
		fmt.Fprintf(os.Stdout, "\nIssues (%d):\n", len(result.Issues))
		printIssues(os.Stdout, result.Issues)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("ingestion completed with errors")
	}

	return nil
}
