// Package library reads and writes the compact candidate library format:
//
//	{"version":"tsb.lib.v1","candidates":[{"id","title","prefs":{topicId:{directionId:stars}},"notes"}]}
//
// and expands candidates into full preference sets laid out like the starter
// reference pack.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"prefset/internal/prefs"
	"prefset/internal/starter"
)

const Version = "tsb.lib.v1"

var (
	ErrUnsupportedVersion = errors.New("unsupported library version")
	ErrMissingCandidateID = errors.New("library candidate missing id")
	ErrDuplicateCandidate = errors.New("duplicate library candidate id")
)

// Prefs maps topic id to direction id to stars.
type Prefs map[string]map[string]int

type Library struct {
	Version    string      `json:"version"`
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Prefs Prefs  `json:"prefs"`
	Notes string `json:"notes,omitempty"`
}

// Expanded is a candidate rendered as a full preference set.
type Expanded struct {
	ID  string
	Set prefs.PreferenceSet
}

func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parsing library: %w", err)
	}
	if lib.Version != Version {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, lib.Version)
	}

	seen := make(map[string]struct{}, len(lib.Candidates))
	for i, candidate := range lib.Candidates {
		if strings.TrimSpace(candidate.ID) == "" {
			return nil, fmt.Errorf("candidate %d: %w", i, ErrMissingCandidateID)
		}
		if _, exists := seen[candidate.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCandidate, candidate.ID)
		}
		seen[candidate.ID] = struct{}{}
	}
	return &lib, nil
}

func ParseFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading library: %w", err)
	}
	return Parse(data)
}

// BuildPreferenceSetFromPrefs lays out every reference topic and direction in
// reference order. Missing stars default to 0 and all stars are clamped. A
// topic's importance is the highest star among its directions.
func BuildPreferenceSetFromPrefs(ref starter.Reference, title, notes string, p Prefs, now time.Time) prefs.PreferenceSet {
	set := prefs.PreferenceSet{
		Version:   prefs.Version,
		Title:     title,
		Notes:     notes,
		Topics:    make([]prefs.Topic, 0, len(ref.Topics)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, rt := range ref.Topics {
		stars := p[rt.ID]
		topic := prefs.Topic{
			ID:         rt.ID,
			Title:      rt.Title,
			Stance:     prefs.StanceNeutral,
			Directions: make([]prefs.Direction, 0, len(rt.Directions)),
			Sources:    []prefs.Source{},
			Relations:  prefs.Relations{Broader: []string{}, Narrower: []string{}, Related: []string{}},
		}
		for _, rd := range rt.Directions {
			s := prefs.Clamp(stars[rd.ID])
			if s > topic.Importance {
				topic.Importance = s
			}
			topic.Directions = append(topic.Directions, prefs.Direction{
				ID:      rd.ID,
				Text:    rd.Text,
				Stars:   s,
				Sources: []prefs.Source{},
				Tags:    []string{},
			})
		}
		set.Topics = append(set.Topics, topic)
	}
	return set
}

// Expand renders every candidate against ref.
func Expand(lib *Library, ref starter.Reference, now time.Time) []Expanded {
	out := make([]Expanded, 0, len(lib.Candidates))
	for _, candidate := range lib.Candidates {
		out = append(out, Expanded{
			ID:  candidate.ID,
			Set: BuildPreferenceSetFromPrefs(ref, candidate.Title, candidate.Notes, candidate.Prefs, now),
		})
	}
	return out
}

// Compact is the reverse of BuildPreferenceSetFromPrefs. Zero-star directions
// and topics left with nothing rated are omitted, as are entries without ids.
func Compact(id string, set prefs.PreferenceSet) Candidate {
	candidate := Candidate{ID: id, Title: set.Title, Notes: set.Notes, Prefs: Prefs{}}
	for _, topic := range set.Topics {
		if topic.ID == "" {
			continue
		}
		for _, direction := range topic.Directions {
			stars := prefs.Clamp(direction.Stars)
			if direction.ID == "" || stars == 0 {
				continue
			}
			if candidate.Prefs[topic.ID] == nil {
				candidate.Prefs[topic.ID] = map[string]int{}
			}
			candidate.Prefs[topic.ID][direction.ID] = stars
		}
	}
	return candidate
}

// Marshal renders a library as indented JSON.
func Marshal(lib *Library) ([]byte, error) {
	if lib.Version == "" {
		lib.Version = Version
	}
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding library: %w", err)
	}
	return append(data, '\n'), nil
}
