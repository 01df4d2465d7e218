// Package merge folds an incoming preference set into the current one.
//
// Current owns the user's edits: title, importance and stance never change.
// Incoming contributes fresh ratings, new directions, new topics and sources.
// Identity is resolved with prefs.MatchTopic and prefs.MatchDirection (id,
// then normalized text).
package merge

import (
	"prefset/internal/prefs"
)

// Merge combines current with every topic of incoming.
func Merge(current, incoming prefs.PreferenceSet, opts ...Option) prefs.PreferenceSet {
	return mergeSets(current, incoming, nil, opts)
}

// MergeSelected merges only the topics whose normalized title is in accepted.
// Accepted titles are normalized here, so callers may pass display titles.
// All other current topics pass through untouched and other incoming topics
// are dropped.
func MergeSelected(current, incoming prefs.PreferenceSet, accepted []string, opts ...Option) prefs.PreferenceSet {
	set := make(map[string]struct{}, len(accepted))
	for _, title := range accepted {
		set[prefs.Normalize(title)] = struct{}{}
	}
	return mergeSets(current, incoming, set, opts)
}

func mergeSets(current, incoming prefs.PreferenceSet, accepted map[string]struct{}, opts []Option) prefs.PreferenceSet {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	isAccepted := func(titles ...string) bool {
		if accepted == nil {
			return true
		}
		for _, title := range titles {
			if _, ok := accepted[prefs.Normalize(title)]; ok {
				return true
			}
		}
		return false
	}

	out := current.Clone()
	out.UpdatedAt = incoming.UpdatedAt
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = o.now()
	}

	// A current topic merges with at most one incoming topic, and an id match
	// beats a title match. Any incoming topic that matches a current topic is
	// treated as already merged and is not appended, even when its partner was
	// claimed by id. Current may not gain a second topic with a title it
	// already holds.
	topics := make([]prefs.Topic, 0, len(current.Topics)+len(incoming.Topics))
	for _, topic := range out.Topics {
		idx, ok := prefs.MatchTopic(topic, incoming.Topics)
		if !ok || !isAccepted(topic.Title, incoming.Topics[idx].Title) {
			topics = append(topics, topic)
			continue
		}
		topics = append(topics, mergeTopic(topic, incoming.Topics[idx], o))
	}

	for _, topic := range incoming.Topics {
		if _, ok := prefs.MatchTopic(topic, current.Topics); ok {
			continue
		}
		if !isAccepted(topic.Title) {
			continue
		}
		topics = append(topics, topic.Clone())
	}

	out.Topics = topics
	return out
}

func mergeTopic(current, incoming prefs.Topic, o *options) prefs.Topic {
	out := current
	out.Notes = mergeNotes(current.Notes, incoming.Notes, o.notesSeparator)
	out.Sources = prefs.UnionSources(current.Sources, incoming.Sources, prefs.MaxTopicSources)
	out.Relations = prefs.Relations{
		Broader:  prefs.UnionStrings(current.Relations.Broader, incoming.Relations.Broader),
		Narrower: prefs.UnionStrings(current.Relations.Narrower, incoming.Relations.Narrower),
		Related:  prefs.UnionStrings(current.Relations.Related, incoming.Relations.Related),
	}
	out.Directions = mergeDirections(current.Directions, incoming.Directions)
	return out
}

func mergeNotes(current, incoming, sep string) string {
	switch {
	case current == "":
		return incoming
	case incoming == "" || current == incoming:
		return current
	default:
		return current + sep + incoming
	}
}

func mergeDirections(current, incoming []prefs.Direction) []prefs.Direction {
	out := make([]prefs.Direction, 0, len(current)+len(incoming))
	for _, direction := range current {
		idx, ok := prefs.MatchDirection(direction, incoming)
		if !ok {
			out = append(out, direction)
			continue
		}
		out = append(out, mergeDirection(direction, incoming[idx]))
	}
	for _, direction := range incoming {
		if _, ok := prefs.MatchDirection(direction, current); ok {
			continue
		}
		out = append(out, direction.Clone())
	}
	return out
}

// mergeDirection lets incoming ratings and content win while keeping the
// current id stable for the UI.
func mergeDirection(current, incoming prefs.Direction) prefs.Direction {
	out := current
	out.Stars = incoming.Stars
	if incoming.Text != "" {
		out.Text = incoming.Text
	}
	if incoming.Notes != "" {
		out.Notes = incoming.Notes
	}
	if len(incoming.Sources) > 0 {
		out.Sources = append([]prefs.Source(nil), incoming.Sources...)
	}
	if len(incoming.Tags) > 0 {
		out.Tags = append([]string(nil), incoming.Tags...)
	}
	return out
}
