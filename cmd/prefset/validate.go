package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"prefset/internal/ingest"
	"prefset/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check preference set files; defaults to every file in the library",
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		files, err = ingest.FindSetFiles(cfg)
		if err != nil {
			return err
		}
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	parseFailures := 0
	for _, path := range files {
		set, err := readSet(path)
		if err != nil {
			fmt.Fprintf(os.Stdout, "  - %s: %v\n", path, err)
			parseFailures++
			continue
		}
		report := validate.Run(set).WithFile(path)
		for _, issue := range report.Issues {
			switch issue.Severity {
			case validate.SeverityError:
				errorIssues = append(errorIssues, issue)
			case validate.SeverityWarn:
				warnIssues = append(warnIssues, issue)
			}
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 && parseFailures == 0 {
		fmt.Fprintf(os.Stdout, "No issues found in %d file(s).\n", len(files))
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 || parseFailures > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Topic
		if issue.Direction != "" {
			location = fmt.Sprintf("%s / %s", issue.Topic, issue.Direction)
		}
		if issue.FilePath != "" {
			location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
