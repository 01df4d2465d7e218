package store

import (
	"strings"

	"prefset/internal/prefs"
)

type SetInput struct {
	Name       string
	SourceFile string
	SourceHash string
	Set        prefs.PreferenceSet
}

type SetRecord struct {
	Name       string
	SourceFile string
	SourceHash string
	Set        prefs.PreferenceSet
}

type SetSummary struct {
	Name       string
	Title      string
	TopicCount int
	SourceFile string
}

type SearchResult struct {
	Name    string
	Title   string
	Score   float64
	Snippet string
}

// NormalizeName is the lookup key for a set name.
func NormalizeName(name string) string {
	return prefs.Normalize(name)
}

// SearchText flattens the searchable text of a set: its title and notes, and
// every topic title, topic note and direction text.
func SearchText(set prefs.PreferenceSet) string {
	parts := []string{set.Title, set.Notes}
	for _, topic := range set.Topics {
		parts = append(parts, topic.Title, topic.Notes)
		for _, direction := range topic.Directions {
			parts = append(parts, direction.Text, direction.Notes)
		}
	}

	var b strings.Builder
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(part)
	}
	return b.String()
}
