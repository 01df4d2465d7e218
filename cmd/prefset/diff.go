package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prefset/internal/diff"
	"prefset/internal/prefs"
)

func diffCmd() *cobra.Command {
	var stored bool
	var asJSON bool
	var priority bool
	cmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare two preference sets topic by topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, right, err := loadSetPair(cmd.Context(), args[0], args[1], stored)
			if err != nil {
				return err
			}
			if priority {
				return printPriority(left, right, asJSON)
			}
			return printDiff(diff.Compute(left, right), asJSON)
		},
	}
	cmd.Flags().BoolVar(&stored, "stored", false, "Treat arguments as stored set names instead of files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&priority, "priority", false, "Print the importance comparison instead of the full diff")
	return cmd
}

// loadSetPair reads two sets from files, or from the database when stored is set.
func loadSetPair(ctx context.Context, left, right string, stored bool) (prefs.PreferenceSet, prefs.PreferenceSet, error) {
	if !stored {
		l, err := readSet(left)
		if err != nil {
			return prefs.PreferenceSet{}, prefs.PreferenceSet{}, err
		}
		r, err := readSet(right)
		if err != nil {
			return prefs.PreferenceSet{}, prefs.PreferenceSet{}, err
		}
		return l, r, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return prefs.PreferenceSet{}, prefs.PreferenceSet{}, err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return prefs.PreferenceSet{}, prefs.PreferenceSet{}, err
	}
	defer db.Close(ctx)

	sets := make([]prefs.PreferenceSet, 0, 2)
	for _, name := range []string{left, right} {
		record, err := db.GetSet(ctx, name)
		if err != nil {
			return prefs.PreferenceSet{}, prefs.PreferenceSet{}, err
		}
		if record == nil {
			return prefs.PreferenceSet{}, prefs.PreferenceSet{}, fmt.Errorf("set not found: %s", name)
		}
		sets = append(sets, record.Set)
	}
	return sets[0], sets[1], nil
}

func printDiff(d diff.PreferenceSetDiff, asJSON bool) error {
	if asJSON {
		return writeJSON(d)
	}

	summary := d.Summary()
	fmt.Fprintf(os.Stdout, "%d added, %d removed, %d modified, %d unchanged\n", summary.Added, summary.Removed, summary.Modified, summary.Unchanged)
	for _, topic := range d.Added {
		fmt.Fprintf(os.Stdout, "+ %s (importance %d)\n", topic.Title, topic.Importance)
	}
	for _, topic := range d.Removed {
		fmt.Fprintf(os.Stdout, "- %s (importance %d)\n", topic.Title, topic.Importance)
	}
	for _, m := range d.Modified {
		fmt.Fprintf(os.Stdout, "~ %s\n", m.Title)
		if c := m.Changes.Title; c != nil {
			fmt.Fprintf(os.Stdout, "    title: %q -> %q\n", c.Left, c.Right)
		}
		if c := m.Changes.Importance; c != nil {
			fmt.Fprintf(os.Stdout, "    importance: %d -> %d\n", c.Left, c.Right)
		}
		if m.Changes.Notes != nil {
			fmt.Fprintln(os.Stdout, "    notes changed")
		}
		dirs := m.Changes.Directions
		for _, direction := range dirs.Added {
			fmt.Fprintf(os.Stdout, "    + %s (%d stars)\n", direction.Text, direction.Stars)
		}
		for _, direction := range dirs.Removed {
			fmt.Fprintf(os.Stdout, "    - %s (%d stars)\n", direction.Text, direction.Stars)
		}
		for _, dd := range dirs.Modified {
			if c := dd.Changes.Stars; c != nil {
				fmt.Fprintf(os.Stdout, "    ~ %s: %d -> %d stars\n", dd.Text, c.Left, c.Right)
			} else {
				fmt.Fprintf(os.Stdout, "    ~ %s\n", dd.Text)
			}
		}
	}
	return nil
}

func printPriority(left, right prefs.PreferenceSet, asJSON bool) error {
	rows := diff.ComputePriorityComparison(left, right)
	if asJSON {
		return writeJSON(rows)
	}
	for _, row := range rows {
		fmt.Fprintf(os.Stdout, "%-32s %d  %d  %+d\n", row.TopicTitle, row.LeftImportance, row.RightImportance, row.ImportanceDiff)
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
