package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored preference sets",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
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

	sets, err := db.ListSets(ctx)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Fprintln(os.Stdout, "No sets found.")
		return nil
	}

	for _, set := range sets {
		fmt.Fprintf(os.Stdout, "%s: %s (%d topics) [%s]\n", set.Name, set.Title, set.TopicCount, set.SourceFile)
	}
	return nil
}
