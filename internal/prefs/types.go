package prefs

import "time"

// Version is the document tag every PreferenceSet carries.
const Version = "tsb.v1"

const (
	MinRating = 0
	MaxRating = 5

	MaxTopicSources = 5
)

type Stance string

const (
	StanceStronglyAgainst Stance = "strongly_against"
	StanceAgainst         Stance = "against"
	StanceNeutral         Stance = "neutral"
	StanceFor             Stance = "for"
	StanceStronglyFor     Stance = "strongly_for"
)

var stances = []Stance{
	StanceStronglyAgainst,
	StanceAgainst,
	StanceNeutral,
	StanceFor,
	StanceStronglyFor,
}

func (s Stance) Valid() bool {
	for _, known := range stances {
		if s == known {
			return true
		}
	}
	return false
}

type PreferenceSet struct {
	Version   string    `json:"version" yaml:"version"`
	Title     string    `json:"title" yaml:"title"`
	Notes     string    `json:"notes" yaml:"notes"`
	Topics    []Topic   `json:"topics" yaml:"topics"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

type Topic struct {
	ID         string      `json:"id" yaml:"id"`
	Title      string      `json:"title" yaml:"title"`
	Importance int         `json:"importance" yaml:"importance"`
	Stance     Stance      `json:"stance" yaml:"stance"`
	Directions []Direction `json:"directions" yaml:"directions"`
	Notes      string      `json:"notes" yaml:"notes"`
	Sources    []Source    `json:"sources" yaml:"sources"`
	Relations  Relations   `json:"relations" yaml:"relations"`
}

// Relations link a topic to other topics by id.
type Relations struct {
	Broader  []string `json:"broader" yaml:"broader"`
	Narrower []string `json:"narrower" yaml:"narrower"`
	Related  []string `json:"related" yaml:"related"`
}

type Direction struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Stars   int      `json:"stars" yaml:"stars"`
	Notes   string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Sources []Source `json:"sources" yaml:"sources"`
	Tags    []string `json:"tags" yaml:"tags"`
}

type Source struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Clone returns a deep copy so merged or applied output never aliases its input.
func (s PreferenceSet) Clone() PreferenceSet {
	out := s
	out.Topics = CloneTopics(s.Topics)
	return out
}

func CloneTopics(topics []Topic) []Topic {
	if topics == nil {
		return nil
	}
	out := make([]Topic, len(topics))
	for i, topic := range topics {
		out[i] = topic.Clone()
	}
	return out
}

func (t Topic) Clone() Topic {
	out := t
	if t.Directions != nil {
		out.Directions = make([]Direction, len(t.Directions))
		for i, direction := range t.Directions {
			out.Directions[i] = direction.Clone()
		}
	}
	out.Sources = cloneSlice(t.Sources)
	out.Relations = Relations{
		Broader:  cloneSlice(t.Relations.Broader),
		Narrower: cloneSlice(t.Relations.Narrower),
		Related:  cloneSlice(t.Relations.Related),
	}
	return out
}

func (d Direction) Clone() Direction {
	out := d
	out.Sources = cloneSlice(d.Sources)
	out.Tags = cloneSlice(d.Tags)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
