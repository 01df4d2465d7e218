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
	"prefset/internal/starter"
)

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new prefset project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(cmd, projectName, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://prefset.db", "Database DSN (sqlite:// or postgres://)")
	return cmd
}

func runInit(cmd *cobra.Command, projectName, dsn string) error {
	setsDir := "sets"
	starterPath := filepath.Join(setsDir, "starter.json")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if _, err := os.Stat(starterPath); err == nil {
		return fmt.Errorf("%s already exists", starterPath)
	}

	configContents := fmt.Sprintf("project: %s\nversion: 1\n\ndatabase:\n  dsn: %s\n\npack:\n  id: %s\n\nlibrary:\n  paths:\n    - ./%s/\n\nexclude:\n  - \"**/drafts/**\"\n\nlog:\n  level: info\n", projectName, dsn, starter.DefaultPackID, setsDir)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	ref, err := starter.DefaultReference()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(setsDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", setsDir, err)
	}
	set := library.BuildPreferenceSetFromPrefs(ref, "My preferences", "", nil, time.Now().UTC())
	if err := parser.WriteFile(starterPath, set); err != nil {
		return err
	}

	cmd.Printf("Wrote %s and %s\n", configPath, starterPath)
	return nil
}
