package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prefset/internal/parser"
)

func showCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored preference set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(args[0], parser.Format(format))
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: json or yaml")
	return cmd
}

func runShow(name string, format parser.Format) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	record, err := db.GetSet(ctx, name)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("set not found: %s", name)
	}

	data, err := parser.Marshal(record.Set, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
