package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prefset/internal/merge"
	"prefset/internal/parser"
	"prefset/internal/prefs"
)

func mergeCmd() *cobra.Command {
	var stored bool
	var accept []string
	var out string
	var separator string
	cmd := &cobra.Command{
		Use:   "merge <current> <incoming>",
		Short: "Merge an incoming preference set into the current one",
		Long: "Merge keeps the current set's titles, importance, and stance. Incoming\n" +
			"direction ratings win, new topics and directions are appended, and notes\n" +
			"and sources are combined. Use --accept to merge only some topics.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, incoming, err := loadSetPair(cmd.Context(), args[0], args[1], stored)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := mergeOptions(cfg)
			if cmd.Flags().Changed("separator") {
				opts = append(opts, merge.WithNotesSeparator(separator))
			}

			var merged prefs.PreferenceSet
			if cmd.Flags().Changed("accept") {
				merged = merge.MergeSelected(current, incoming, accept, opts...)
			} else {
				merged = merge.Merge(current, incoming, opts...)
			}

			if out == "" {
				data, err := parser.Marshal(merged, parser.FormatJSON)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := parser.WriteFile(out, merged); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Merged %d topic(s) into %s\n", len(merged.Topics), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&stored, "stored", false, "Treat arguments as stored set names instead of files")
	cmd.Flags().StringSliceVar(&accept, "accept", nil, "Topic titles to merge (repeatable); others are left alone")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the merged set to this file (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&separator, "separator", "", "Separator for combined notes (overrides merge.notes_separator)")
	return cmd
}
