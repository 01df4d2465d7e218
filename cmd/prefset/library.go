package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"prefset/internal/library"
	"prefset/internal/parser"
)

func libraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Convert between candidate libraries and preference sets",
	}
	cmd.AddCommand(libraryExpandCmd())
	cmd.AddCommand(libraryCompactCmd())
	return cmd
}

func libraryExpandCmd() *cobra.Command {
	var outDir string
	var format string
	cmd := &cobra.Command{
		Use:   "expand <library.json>",
		Short: "Write one preference set file per library candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ref, err := loadReference(cfg)
			if err != nil {
				return err
			}
			lib, err := library.ParseFile(args[0])
			if err != nil {
				return err
			}
			ext := "." + strings.TrimPrefix(format, ".")
			if ext != ".json" && ext != ".yaml" && ext != ".yml" {
				return fmt.Errorf("unsupported format: %q", format)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}

			for _, expanded := range library.Expand(lib, ref, time.Now().UTC()) {
				path := filepath.Join(outDir, expanded.ID+ext)
				if err := parser.WriteFile(path, expanded.Set); err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s -> %s\n", expanded.ID, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the expanded set files")
	cmd.Flags().StringVar(&format, "format", "json", "File format: json or yaml")
	return cmd
}

func libraryCompactCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "compact <file...>",
		Short: "Build a candidate library from preference set files",
		Long:  "Each file becomes one candidate whose id is the file name without extension.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := &library.Library{Version: library.Version}
			for _, path := range args {
				set, err := readSet(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				lib.Candidates = append(lib.Candidates, library.Compact(id, set))
			}

			data, err := library.Marshal(lib)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the library to this file instead of stdout")
	return cmd
}
