package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"prefset/internal/config"
	"prefset/internal/parser"
	"prefset/internal/store"
	"prefset/internal/validate"
)

// Store is the part of store.Store ingestion writes through.
type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertSet(ctx context.Context, s store.SetInput) error
	GetSourceHashes(ctx context.Context) (map[string]string, error)
	RemoveStaleSets(ctx context.Context, currentSourceFiles []string) (int64, error)
}

type Result struct {
	SetsUpserted int
	SetsRemoved  int
	FilesSkipped int
	Rejected     int
	Issues       []validate.Issue
	Errors       []error
}

type Options struct {
	Full   bool
	Logger *slog.Logger
}

var setExtensions = map[string]struct{}{
	".json": {},
	".yaml": {},
	".yml":  {},
}

// Run loads every preference set file under the configured library paths.
// Unchanged files are skipped unless Full is set. Files whose validation
// reports errors are not stored. Sets whose file disappeared are removed.
func Run(ctx context.Context, cfg *config.ProjectConfig, db Store, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var existingHashes map[string]string
	if !options.Full {
		var err error
		existingHashes, err = db.GetSourceHashes(ctx)
		if err != nil {
			return nil, fmt.Errorf("get source hashes: %w", err)
		}
	}

	result := &Result{}
	var allFiles []string
	for _, root := range cfg.Library.Paths {
		files, err := walkSetFiles(root, cfg.Exclude)
		if err != nil {
			return nil, fmt.Errorf("walking library path %s: %w", root, err)
		}
		allFiles = append(allFiles, files...)

		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			hash, err := computeHash(path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("hashing %s: %w", path, err))
				continue
			}
			if existing, ok := existingHashes[path]; ok && existing == hash {
				logger.Debug("skipping unchanged set", "path", path)
				result.FilesSkipped++
				continue
			}

			doc, err := parser.ParseFile(path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, err))
				continue
			}

			report := validate.Run(doc.Set).WithFile(path)
			result.Issues = append(result.Issues, report.Issues...)
			if report.HasErrors() {
				logger.Warn("rejecting invalid set", "path", path, "issues", len(report.Issues))
				result.Rejected++
				continue
			}

			input := store.SetInput{
				Name:       setName(root, path),
				SourceFile: path,
				SourceHash: hash,
				Set:        doc.Set,
			}
			if err := db.UpsertSet(ctx, input); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", path, err))
				continue
			}
			logger.Info("ingested set", "name", input.Name, "path", path, "topics", len(doc.Set.Topics))
			result.SetsUpserted++
		}
	}

	removed, err := db.RemoveStaleSets(ctx, allFiles)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing stale sets: %w", err))
	} else {
		result.SetsRemoved = int(removed)
	}

	return result, nil
}

// setName is the file path relative to its library root, without extension.
func setName(root, path string) string {
	rel, err := filepath.Rel(filepath.Clean(root), path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
}

// FindSetFiles lists the set files under every configured library path,
// honouring exclude patterns.
func FindSetFiles(cfg *config.ProjectConfig) ([]string, error) {
	var all []string
	for _, root := range cfg.Library.Paths {
		files, err := walkSetFiles(root, cfg.Exclude)
		if err != nil {
			return nil, fmt.Errorf("walking library path %s: %w", root, err)
		}
		all = append(all, files...)
	}
	return all, nil
}

func walkSetFiles(root string, excludes []string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil
	}
	root = filepath.Clean(root)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		excluded := false
		if path != root {
			if excluded, err = isExcluded(root, path, excludes); err != nil {
				return err
			}
		}
		if excluded {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := setExtensions[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// isExcluded matches patterns against the walked path and against the path
// relative to its library root.
func isExcluded(root, path string, excludes []string) (bool, error) {
	candidates := []string{filepath.ToSlash(path)}
	if rel, err := filepath.Rel(root, path); err == nil {
		candidates = append(candidates, filepath.ToSlash(rel))
	}
	for _, pattern := range excludes {
		if pattern == "" {
			continue
		}
		pattern = filepath.ToSlash(filepath.Clean(pattern))
		for _, candidate := range candidates {
			ok, err := doublestar.Match(pattern, candidate)
			if err != nil {
				return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func computeHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
