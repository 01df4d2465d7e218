// Package starter builds the Starter Index: the fixed coordinate system the
// share codec uses instead of transmitting ids.
//
// A topic's position in the reference pack is its coordinate, and so is a
// direction's position within its topic. The index never changes after Build.
// When the reference pack changes, its pack id must change too, so payloads
// encoded against an older layout are rejected instead of misapplied.
package starter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"prefset/internal/prefs"
)

// DefaultPackID tags payloads built against the bundled pack.
const DefaultPackID = "sp-v1"

//go:embed pack/starter.json
var bundledPack []byte

var (
	ErrMissingPackID      = errors.New("starter pack id is required")
	ErrMissingTopicID     = errors.New("starter topic missing id")
	ErrDuplicateTopic     = errors.New("duplicate starter topic id")
	ErrDuplicateDirection = errors.New("duplicate starter direction id")
)

// Reference is the bundled reference document. Only ids, titles and
// direction texts are read.
type Reference struct {
	Topics []ReferenceTopic `json:"topics"`
}

type ReferenceTopic struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Directions []ReferenceDirection `json:"directions"`
}

type ReferenceDirection struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Index struct {
	packID         string
	topicIDs       []string
	topicTitles    []string
	directionIDs   [][]string
	directionTexts [][]string
}

func Build(packID string, ref Reference) (*Index, error) {
	if strings.TrimSpace(packID) == "" {
		return nil, ErrMissingPackID
	}

	idx := &Index{
		packID:         packID,
		topicIDs:       make([]string, 0, len(ref.Topics)),
		topicTitles:    make([]string, 0, len(ref.Topics)),
		directionIDs:   make([][]string, 0, len(ref.Topics)),
		directionTexts: make([][]string, 0, len(ref.Topics)),
	}

	seenTopics := make(map[string]struct{}, len(ref.Topics))
	for i, topic := range ref.Topics {
		if strings.TrimSpace(topic.ID) == "" {
			return nil, fmt.Errorf("topic %d: %w", i, ErrMissingTopicID)
		}
		if _, exists := seenTopics[topic.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTopic, topic.ID)
		}
		seenTopics[topic.ID] = struct{}{}

		ids := make([]string, 0, len(topic.Directions))
		texts := make([]string, 0, len(topic.Directions))
		seenDirs := make(map[string]struct{}, len(topic.Directions))
		for _, direction := range topic.Directions {
			if direction.ID != "" {
				if _, exists := seenDirs[direction.ID]; exists {
					return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateDirection, topic.ID, direction.ID)
				}
				seenDirs[direction.ID] = struct{}{}
			}
			ids = append(ids, direction.ID)
			texts = append(texts, prefs.Normalize(direction.Text))
		}

		idx.topicIDs = append(idx.topicIDs, topic.ID)
		idx.topicTitles = append(idx.topicTitles, prefs.Normalize(topic.Title))
		idx.directionIDs = append(idx.directionIDs, ids)
		idx.directionTexts = append(idx.directionTexts, texts)
	}

	return idx, nil
}

// ParseReference decodes a reference pack document.
func ParseReference(data []byte) (Reference, error) {
	var ref Reference
	if err := json.Unmarshal(data, &ref); err != nil {
		return Reference{}, fmt.Errorf("parsing starter pack: %w", err)
	}
	return ref, nil
}

func LoadReference(path string) (Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Reference{}, fmt.Errorf("loading starter pack: %w", err)
	}
	return ParseReference(data)
}

// Load builds an index from a reference pack file.
func Load(path, packID string) (*Index, error) {
	ref, err := LoadReference(path)
	if err != nil {
		return nil, err
	}
	return Build(packID, ref)
}

// DefaultReference returns the bundled reference pack.
func DefaultReference() (Reference, error) {
	return ParseReference(bundledPack)
}

// Default builds the index of the bundled pack under DefaultPackID.
func Default() (*Index, error) {
	ref, err := DefaultReference()
	if err != nil {
		return nil, err
	}
	return Build(DefaultPackID, ref)
}

func (ix *Index) PackID() string { return ix.packID }

func (ix *Index) TopicCount() int { return len(ix.topicIDs) }

func (ix *Index) TopicID(t int) string { return ix.topicIDs[t] }

// DirectionCount returns the number of direction coordinates of topic t.
func (ix *Index) DirectionCount(t int) int { return len(ix.directionIDs[t]) }

func (ix *Index) DirectionID(t, d int) string { return ix.directionIDs[t][d] }

// ValidTopic reports whether t is a coordinate of this index.
func (ix *Index) ValidTopic(t int) bool {
	return t >= 0 && t < len(ix.topicIDs)
}

func (ix *Index) ValidDirection(t, d int) bool {
	return ix.ValidTopic(t) && d >= 0 && d < len(ix.directionIDs[t])
}

// ResolveTopic finds the topic at coordinate t in topics, by id and then by
// normalized reference title. A blank reference title resolves by id only.
func (ix *Index) ResolveTopic(topics []prefs.Topic, t int) (int, bool) {
	if !ix.ValidTopic(t) {
		return -1, false
	}
	ref := prefs.Topic{ID: ix.topicIDs[t], Title: ix.topicTitles[t]}
	i, ok := prefs.MatchTopic(ref, topics)
	if !ok || (ref.Title == "" && topics[i].ID != ref.ID) {
		return -1, false
	}
	return i, true
}

// ResolveDirection finds the direction at coordinate (t, d) in directions.
// A blank reference text resolves by id only.
func (ix *Index) ResolveDirection(directions []prefs.Direction, t, d int) (int, bool) {
	if !ix.ValidDirection(t, d) {
		return -1, false
	}
	ref := prefs.Direction{ID: ix.directionIDs[t][d], Text: ix.directionTexts[t][d]}
	i, ok := prefs.MatchDirection(ref, directions)
	if !ok || (ref.Text == "" && (ref.ID == "" || directions[i].ID != ref.ID)) {
		return -1, false
	}
	return i, true
}
