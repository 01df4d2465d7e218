package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"prefset/internal/prefs"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type Document struct {
	Set        prefs.PreferenceSet
	Format     Format
	SourceFile string
}

var (
	ErrUnsupportedFormat  = errors.New("unsupported preference set format")
	ErrInvalidJSON        = errors.New("invalid JSON in preference set")
	ErrInvalidYAML        = errors.New("invalid YAML in preference set")
	ErrUnsupportedVersion = errors.New("unsupported preference set version")
	ErrMissingTitle       = errors.New("preference set missing required 'title' field")
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func ParseFile(path string) (*Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

func Parse(content []byte, format Format) (*Document, error) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))

	var set prefs.PreferenceSet
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(content, &set); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &set); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	switch set.Version {
	case "":
		set.Version = prefs.Version
	case prefs.Version:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, set.Version)
	}
	if strings.TrimSpace(set.Title) == "" {
		return nil, ErrMissingTitle
	}

	normalize(&set)
	return &Document{Set: set, Format: format}, nil
}

// normalize replaces nil slices with empty ones and drops blank tags and
// relation ids, so documents from either format compare and serialize alike.
func normalize(set *prefs.PreferenceSet) {
	if set.Topics == nil {
		set.Topics = []prefs.Topic{}
	}
	for i := range set.Topics {
		topic := &set.Topics[i]
		if topic.Directions == nil {
			topic.Directions = []prefs.Direction{}
		}
		if topic.Sources == nil {
			topic.Sources = []prefs.Source{}
		}
		topic.Relations.Broader = cleanStrings(topic.Relations.Broader)
		topic.Relations.Narrower = cleanStrings(topic.Relations.Narrower)
		topic.Relations.Related = cleanStrings(topic.Relations.Related)
		for j := range topic.Directions {
			direction := &topic.Directions[j]
			if direction.Sources == nil {
				direction.Sources = []prefs.Source{}
			}
			direction.Tags = cleanStrings(direction.Tags)
		}
	}
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Marshal renders a set as indented JSON or as YAML.
func Marshal(set prefs.PreferenceSet, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(set)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteFile writes set to path in the format its extension names.
func WriteFile(path string, set prefs.PreferenceSet) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(set, format)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
