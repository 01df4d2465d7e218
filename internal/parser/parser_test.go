package parser

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"prefset/internal/prefs"
)

const validJSON = `{
  "version": "tsb.v1",
  "title": "Mine",
  "topics": [
    {
      "id": "t1",
      "title": "Transit",
      "importance": 4,
      "stance": "for",
      "directions": [
        {"id": "d1", "text": "Expand rail", "stars": 5, "tags": ["infra", " "]}
      ],
      "relations": {"related": ["t2", ""]}
    }
  ],
  "createdAt": "2026-01-02T03:04:05Z"
}`

const validYAML = `version: tsb.v1
title: Mine
topics:
  - id: t1
    title: Transit
    importance: 4
    stance: for
    directions:
      - id: d1
        text: Expand rail
        stars: 5
        tags: [infra]
    relations:
      related: [t2]
createdAt: 2026-01-02T03:04:05Z
`

func TestParse(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		doc, err := Parse([]byte(validJSON), FormatJSON)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		set := doc.Set
		if set.Title != "Mine" || len(set.Topics) != 1 {
			t.Fatalf("unexpected set: %+v", set)
		}
		topic := set.Topics[0]
		if topic.Stance != prefs.StanceFor || topic.Directions[0].Stars != 5 {
			t.Fatalf("unexpected topic: %+v", topic)
		}
		if !reflect.DeepEqual(topic.Directions[0].Tags, []string{"infra"}) {
			t.Fatalf("expected blank tags dropped, got %#v", topic.Directions[0].Tags)
		}
		if !reflect.DeepEqual(topic.Relations.Related, []string{"t2"}) {
			t.Fatalf("unexpected relations: %#v", topic.Relations)
		}
		if topic.Sources == nil || topic.Relations.Broader == nil || topic.Directions[0].Sources == nil {
			t.Fatalf("expected nil slices normalized")
		}
		if !set.CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
			t.Fatalf("unexpected createdAt: %v", set.CreatedAt)
		}
	})

	t.Run("yaml matches json", func(t *testing.T) {
		fromJSON, err := Parse([]byte(validJSON), FormatJSON)
		if err != nil {
			t.Fatalf("json: %v", err)
		}
		fromYAML, err := Parse([]byte(validYAML), FormatYAML)
		if err != nil {
			t.Fatalf("yaml: %v", err)
		}
		if !reflect.DeepEqual(fromJSON.Set.Topics, fromYAML.Set.Topics) {
			t.Fatalf("formats disagree:\njson %+v\nyaml %+v", fromJSON.Set.Topics, fromYAML.Set.Topics)
		}
	})

	t.Run("missing version defaults", func(t *testing.T) {
		doc, err := Parse([]byte(`{"title":"x"}`), FormatJSON)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if doc.Set.Version != prefs.Version || doc.Set.Topics == nil {
			t.Fatalf("unexpected set: %+v", doc.Set)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Parse([]byte(`{"title":`), FormatJSON)
		if !errors.Is(err, ErrInvalidJSON) {
			t.Fatalf("expected ErrInvalidJSON, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse([]byte("title: [\n"), FormatYAML)
		if !errors.Is(err, ErrInvalidYAML) {
			t.Fatalf("expected ErrInvalidYAML, got %v", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := Parse([]byte(`{"title":"  "}`), FormatJSON)
		if !errors.Is(err, ErrMissingTitle) {
			t.Fatalf("expected ErrMissingTitle, got %v", err)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := Parse([]byte(`{"version":"tsb.v0","title":"x"}`), FormatJSON)
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := Parse([]byte(`{}`), Format("toml"))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestParse_BOMTrim(t *testing.T) {
	content := []byte("\ufeff{\"title\":\"BOM\"}")
	doc, err := Parse(content, FormatJSON)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.Set.Title != "BOM" {
		t.Fatalf("expected title, got %q", doc.Set.Title)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine.yml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if doc.Format != FormatYAML || doc.SourceFile != path {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestParseFile_UnsupportedExtension(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "notes.md"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseFile_ReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected missing file")
	}
	if _, err := ParseFile(path); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	doc, err := Parse([]byte(validJSON), FormatJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := WriteFile(path, doc.Set); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			again, err := ParseFile(path)
			if err != nil {
				t.Fatalf("ParseFile: %v", err)
			}
			if !reflect.DeepEqual(again.Set.Topics, doc.Set.Topics) {
				t.Fatalf("round trip changed topics:\n got %+v\nwant %+v", again.Set.Topics, doc.Set.Topics)
			}
		})
	}
}
