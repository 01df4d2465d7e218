package validate

import (
	"fmt"
	"strings"

	"prefset/internal/prefs"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeImportanceRange    = "importance_out_of_range"
	codeStarsRange         = "stars_out_of_range"
	codeInvalidStance      = "invalid_stance"
	codeTooManySources     = "too_many_sources"
	codeMissingTopicTitle  = "missing_topic_title"
	codeDuplicateTitle     = "duplicate_topic_title"
	codeDuplicateDirection = "duplicate_direction_text"
	codeDanglingRelation   = "dangling_relation"
)

type Issue struct {
	Severity  Severity
	Code      string
	Message   string
	Topic     string
	Direction string
	FilePath  string
}

type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue has error severity.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WithFile stamps path onto every issue.
func (r *Report) WithFile(path string) *Report {
	for i := range r.Issues {
		r.Issues[i].FilePath = path
	}
	return r
}

// Run checks a preference set. Errors mark documents the engine should not
// ingest. Warnings flag input the matcher resolves ambiguously: with duplicate
// normalized titles the first topic wins every match.
func Run(set prefs.PreferenceSet) *Report {
	issues := make([]Issue, 0)

	topicIDs := make(map[string]struct{}, len(set.Topics))
	for _, topic := range set.Topics {
		if topic.ID != "" {
			topicIDs[topic.ID] = struct{}{}
		}
	}

	seenTitles := make(map[string]struct{}, len(set.Topics))
	for _, topic := range set.Topics {
		issues = append(issues, validateTopic(topic)...)
		issues = append(issues, validateDirections(topic)...)
		issues = append(issues, validateRelations(topic, topicIDs)...)

		key := prefs.Normalize(topic.Title)
		if key == "" {
			continue
		}
		if _, exists := seenTitles[key]; exists {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeDuplicateTitle,
				Message:  fmt.Sprintf("duplicate topic title: %s", topic.Title),
				Topic:    topic.Title,
			})
		}
		seenTitles[key] = struct{}{}
	}

	return &Report{Issues: issues}
}

func validateTopic(topic prefs.Topic) []Issue {
	var issues []Issue
	if strings.TrimSpace(topic.Title) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeMissingTopicTitle,
			Message:  fmt.Sprintf("topic %q has no title", topic.ID),
			Topic:    topic.ID,
		})
	}
	if topic.Importance < prefs.MinRating || topic.Importance > prefs.MaxRating {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeImportanceRange,
			Message:  fmt.Sprintf("importance %d outside [%d,%d]", topic.Importance, prefs.MinRating, prefs.MaxRating),
			Topic:    topic.Title,
		})
	}
	if topic.Stance != "" && !topic.Stance.Valid() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeInvalidStance,
			Message:  fmt.Sprintf("invalid stance: %s", topic.Stance),
			Topic:    topic.Title,
		})
	}
	if len(topic.Sources) > prefs.MaxTopicSources {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeTooManySources,
			Message:  fmt.Sprintf("%d sources, at most %d allowed", len(topic.Sources), prefs.MaxTopicSources),
			Topic:    topic.Title,
		})
	}
	return issues
}

func validateDirections(topic prefs.Topic) []Issue {
	var issues []Issue
	seen := make(map[string]struct{}, len(topic.Directions))
	for _, direction := range topic.Directions {
		if direction.Stars < prefs.MinRating || direction.Stars > prefs.MaxRating {
			issues = append(issues, Issue{
				Severity:  SeverityError,
				Code:      codeStarsRange,
				Message:   fmt.Sprintf("stars %d outside [%d,%d]", direction.Stars, prefs.MinRating, prefs.MaxRating),
				Topic:     topic.Title,
				Direction: direction.Text,
			})
		}

		key := prefs.Normalize(direction.Text)
		if key == "" {
			continue
		}
		if _, exists := seen[key]; exists {
			issues = append(issues, Issue{
				Severity:  SeverityWarn,
				Code:      codeDuplicateDirection,
				Message:   fmt.Sprintf("duplicate direction text: %s", direction.Text),
				Topic:     topic.Title,
				Direction: direction.Text,
			})
		}
		seen[key] = struct{}{}
	}
	return issues
}

func validateRelations(topic prefs.Topic, topicIDs map[string]struct{}) []Issue {
	var issues []Issue
	for _, ids := range [][]string{topic.Relations.Broader, topic.Relations.Narrower, topic.Relations.Related} {
		for _, id := range ids {
			if _, ok := topicIDs[id]; ok {
				continue
			}
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeDanglingRelation,
				Message:  fmt.Sprintf("relation to unknown topic: %s", id),
				Topic:    topic.Title,
			})
		}
	}
	return issues
}
