// Package diff classifies the topics and directions of two preference sets.
//
// Topics are paired by normalized title only: ids are random per document and
// are never trusted here. Output order follows right.Topics for added,
// modified and unchanged entries, then left.Topics for removed ones, so the
// same inputs always produce the same structure.
package diff

import (
	"prefset/internal/prefs"
)

// Change is a before/after record for a single field.
type Change[T comparable] struct {
	Left  T `json:"left"`
	Right T `json:"right"`
}

func changeOf[T comparable](left, right T) *Change[T] {
	if left == right {
		return nil
	}
	return &Change[T]{Left: left, Right: right}
}

type PreferenceSetDiff struct {
	Added     []prefs.Topic `json:"added"`
	Removed   []prefs.Topic `json:"removed"`
	Modified  []TopicDiff   `json:"modified"`
	Unchanged []prefs.Topic `json:"unchanged"`
}

type TopicDiff struct {
	TopicID string       `json:"topicId"`
	Title   string       `json:"title"`
	Left    prefs.Topic  `json:"left"`
	Right   prefs.Topic  `json:"right"`
	Changes TopicChanges `json:"changes"`
}

type TopicChanges struct {
	Title      *Change[string] `json:"title,omitempty"`
	Importance *Change[int]    `json:"importance,omitempty"`
	Notes      *Change[string] `json:"notes,omitempty"`
	Directions DirectionDiffs  `json:"directions"`
}

type DirectionDiffs struct {
	Added     []prefs.Direction `json:"added"`
	Removed   []prefs.Direction `json:"removed"`
	Modified  []DirectionDiff   `json:"modified"`
	Unchanged []prefs.Direction `json:"unchanged"`
}

type DirectionDiff struct {
	DirectionID string           `json:"directionId"`
	Text        string           `json:"text"`
	Left        prefs.Direction  `json:"left"`
	Right       prefs.Direction  `json:"right"`
	Changes     DirectionChanges `json:"changes"`
}

type DirectionChanges struct {
	Text  *Change[string] `json:"text,omitempty"`
	Stars *Change[int]    `json:"stars,omitempty"`
	Notes *Change[string] `json:"notes,omitempty"`
}

type Summary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

func (d PreferenceSetDiff) Summary() Summary {
	return Summary{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Modified:  len(d.Modified),
		Unchanged: len(d.Unchanged),
	}
}

func (d PreferenceSetDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// Compute diffs right against left.
func Compute(left, right prefs.PreferenceSet) PreferenceSetDiff {
	out := PreferenceSetDiff{
		Added:     []prefs.Topic{},
		Removed:   []prefs.Topic{},
		Modified:  []TopicDiff{},
		Unchanged: []prefs.Topic{},
	}

	for _, rightTopic := range right.Topics {
		idx, ok := prefs.FindTopicByTitle(rightTopic.Title, left.Topics)
		if !ok {
			out.Added = append(out.Added, rightTopic)
			continue
		}
		leftTopic := left.Topics[idx]
		changes := compareTopics(leftTopic, rightTopic)
		if changes.empty() {
			out.Unchanged = append(out.Unchanged, rightTopic)
			continue
		}
		out.Modified = append(out.Modified, TopicDiff{
			TopicID: leftTopic.ID,
			Title:   rightTopic.Title,
			Left:    leftTopic,
			Right:   rightTopic,
			Changes: changes,
		})
	}

	for _, leftTopic := range left.Topics {
		if _, ok := prefs.FindTopicByTitle(leftTopic.Title, right.Topics); !ok {
			out.Removed = append(out.Removed, leftTopic)
		}
	}

	return out
}

func compareTopics(left, right prefs.Topic) TopicChanges {
	return TopicChanges{
		Title:      changeOf(left.Title, right.Title),
		Importance: changeOf(left.Importance, right.Importance),
		Notes:      changeOf(left.Notes, right.Notes),
		Directions: compareDirections(left.Directions, right.Directions),
	}
}

func (c TopicChanges) empty() bool {
	return c.Title == nil && c.Importance == nil && c.Notes == nil && c.Directions.empty()
}

func compareDirections(left, right []prefs.Direction) DirectionDiffs {
	out := DirectionDiffs{
		Added:     []prefs.Direction{},
		Removed:   []prefs.Direction{},
		Modified:  []DirectionDiff{},
		Unchanged: []prefs.Direction{},
	}

	for _, rightDir := range right {
		idx, ok := prefs.FindDirectionByText(rightDir.Text, left)
		if !ok {
			out.Added = append(out.Added, rightDir)
			continue
		}
		leftDir := left[idx]
		changes := DirectionChanges{
			Text:  changeOf(leftDir.Text, rightDir.Text),
			Stars: changeOf(leftDir.Stars, rightDir.Stars),
			Notes: changeOf(leftDir.Notes, rightDir.Notes),
		}
		if changes.Text == nil && changes.Stars == nil && changes.Notes == nil {
			out.Unchanged = append(out.Unchanged, rightDir)
			continue
		}
		out.Modified = append(out.Modified, DirectionDiff{
			DirectionID: leftDir.ID,
			Text:        rightDir.Text,
			Left:        leftDir,
			Right:       rightDir,
			Changes:     changes,
		})
	}

	for _, leftDir := range left {
		if _, ok := prefs.FindDirectionByText(leftDir.Text, right); !ok {
			out.Removed = append(out.Removed, leftDir)
		}
	}

	return out
}

func (d DirectionDiffs) empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}
