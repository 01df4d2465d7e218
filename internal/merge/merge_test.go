package merge

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"prefset/internal/prefs"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestMerge_CurrentOwnsUserFields(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	current := prefs.PreferenceSet{
		Version:   prefs.Version,
		Title:     "Mine",
		Notes:     "my notes",
		CreatedAt: created,
		Topics: []prefs.Topic{{
			ID:         "t1",
			Title:      "Transit",
			Importance: 3,
			Stance:     prefs.StanceNeutral,
			Directions: []prefs.Direction{{ID: "d1", Text: "Expand rail", Stars: 2}},
		}},
	}
	incoming := prefs.PreferenceSet{
		Title: "Theirs",
		Notes: "their notes",
		Topics: []prefs.Topic{{
			ID:         "t1",
			Title:      "Transit (renamed)",
			Importance: 5,
			Stance:     prefs.StanceFor,
			Directions: []prefs.Direction{{ID: "other", Text: "expand rail", Stars: 5, Tags: []string{"infra"}}},
		}},
	}

	merged := Merge(current, incoming, WithClock(clock))

	if merged.Title != "Mine" || merged.Notes != "my notes" || !merged.CreatedAt.Equal(created) {
		t.Fatalf("document fields not kept from current: %+v", merged)
	}
	if !merged.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected clock time for zero incoming updatedAt, got %v", merged.UpdatedAt)
	}
	if len(merged.Topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(merged.Topics))
	}
	topic := merged.Topics[0]
	if topic.Importance != 3 || topic.Stance != prefs.StanceNeutral || topic.Title != "Transit" {
		t.Fatalf("current topic fields overwritten: %+v", topic)
	}
	if len(topic.Directions) != 1 {
		t.Fatalf("expected 1 direction, got %+v", topic.Directions)
	}
	dir := topic.Directions[0]
	if dir.Stars != 5 {
		t.Fatalf("expected incoming stars, got %d", dir.Stars)
	}
	if dir.ID != "d1" {
		t.Fatalf("expected current direction id, got %q", dir.ID)
	}
	if dir.Text != "expand rail" || !reflect.DeepEqual(dir.Tags, []string{"infra"}) {
		t.Fatalf("expected incoming text and tags, got %+v", dir)
	}
}

func TestMerge_UpdatedAtFromIncoming(t *testing.T) {
	updated := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	merged := Merge(prefs.PreferenceSet{}, prefs.PreferenceSet{UpdatedAt: updated}, WithClock(clock))
	if !merged.UpdatedAt.Equal(updated) {
		t.Fatalf("expected incoming updatedAt, got %v", merged.UpdatedAt)
	}
}

func TestMerge_SourceDeduplication(t *testing.T) {
	current := prefs.PreferenceSet{Topics: []prefs.Topic{{
		ID:      "t1",
		Title:   "Transit",
		Sources: []prefs.Source{{Label: "A", URL: "https://Example.com/path/"}},
	}}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{{
		ID:      "t1",
		Title:   "Transit",
		Sources: []prefs.Source{{Label: "A", URL: "https://example.com/path"}},
	}}}

	merged := Merge(current, incoming, WithClock(clock))
	if got := len(merged.Topics[0].Sources); got != 1 {
		t.Fatalf("expected 1 source, got %d", got)
	}
}

func TestMerge_SourcesCapped(t *testing.T) {
	var currentSources, incomingSources []prefs.Source
	for i := 0; i < 4; i++ {
		currentSources = append(currentSources, prefs.Source{Label: "c", URL: "https://c.org/" + string(rune('a'+i))})
		incomingSources = append(incomingSources, prefs.Source{Label: "i", URL: "https://i.org/" + string(rune('a'+i))})
	}
	current := prefs.PreferenceSet{Topics: []prefs.Topic{{Title: "Transit", Sources: currentSources}}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{{Title: "Transit", Sources: incomingSources}}}

	merged := Merge(current, incoming, WithClock(clock))
	sources := merged.Topics[0].Sources
	if len(sources) != prefs.MaxTopicSources {
		t.Fatalf("expected %d sources, got %d", prefs.MaxTopicSources, len(sources))
	}
	if sources[0].Label != "c" || sources[4].Label != "i" {
		t.Fatalf("expected current sources first, got %+v", sources)
	}
}

func TestMerge_CrossDocumentTitleMatch(t *testing.T) {
	current := prefs.PreferenceSet{Topics: []prefs.Topic{{ID: "abc", Title: "Transit", Importance: 2}}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{{
		ID:         "xyz",
		Title:      "TRANSIT",
		Importance: 4,
		Directions: []prefs.Direction{{ID: "n1", Text: "Bike lanes", Stars: 4}},
	}}}

	merged := Merge(current, incoming, WithClock(clock))
	if len(merged.Topics) != 1 {
		t.Fatalf("expected title match to merge into one topic, got %d", len(merged.Topics))
	}
	topic := merged.Topics[0]
	if topic.ID != "abc" || topic.Importance != 2 {
		t.Fatalf("unexpected merged topic: %+v", topic)
	}
	if len(topic.Directions) != 1 || topic.Directions[0].Text != "Bike lanes" {
		t.Fatalf("expected new direction appended, got %+v", topic.Directions)
	}
}

func TestMerge_IDMatchBeatsTitleMatch(t *testing.T) {
	current := prefs.PreferenceSet{Topics: []prefs.Topic{{ID: "1", Title: "Transit", Importance: 3}}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{
		{ID: "2", Title: "Transit", Notes: "transit notes"},
		{ID: "1", Title: "Housing", Notes: "housing notes"},
	}}

	merged := Merge(current, incoming, WithClock(clock))
	if len(merged.Topics) != 1 {
		t.Fatalf("expected title twin dropped, got %+v", merged.Topics)
	}
	topic := merged.Topics[0]
	if topic.ID != "1" || topic.Title != "Transit" || topic.Notes != "housing notes" {
		t.Fatalf("expected merge with the id match, got %+v", topic)
	}
}

func TestMerge_BlankKeys(t *testing.T) {
	type summary struct {
		ID         string
		Title      string
		Importance int
		Notes      string
		Directions []string
	}
	summarize := func(topics []prefs.Topic) []summary {
		out := make([]summary, 0, len(topics))
		for _, topic := range topics {
			dirs := make([]string, 0, len(topic.Directions))
			for _, d := range topic.Directions {
				dirs = append(dirs, fmt.Sprintf("%s:%q:%d", d.ID, d.Text, d.Stars))
			}
			out = append(out, summary{ID: topic.ID, Title: topic.Title, Importance: topic.Importance, Notes: topic.Notes, Directions: dirs})
		}
		return out
	}

	tests := []struct {
		name     string
		current  []prefs.Topic
		incoming []prefs.Topic
		want     []summary
	}{
		{
			name:     "blank direction text pairs with blank",
			current:  []prefs.Topic{{ID: "t", Title: "Transit", Directions: []prefs.Direction{{ID: "a", Stars: 1}}}},
			incoming: []prefs.Topic{{ID: "u", Title: "Transit", Directions: []prefs.Direction{{ID: "b", Text: " ", Stars: 4}}}},
			want:     []summary{{ID: "t", Title: "Transit", Directions: []string{`a:" ":4`}}},
		},
		{
			name:     "untitled topics pair",
			current:  []prefs.Topic{{ID: "t", Importance: 2}},
			incoming: []prefs.Topic{{ID: "u", Importance: 5, Notes: "theirs"}},
			want:     []summary{{ID: "t", Importance: 2, Notes: "theirs", Directions: []string{}}},
		},
		{
			name:     "untitled incoming does not pair with titled",
			current:  []prefs.Topic{{ID: "t", Title: "Transit"}},
			incoming: []prefs.Topic{{ID: "u"}},
			want: []summary{
				{ID: "t", Title: "Transit", Directions: []string{}},
				{ID: "u", Directions: []string{}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(prefs.PreferenceSet{Topics: tt.current}, prefs.PreferenceSet{Topics: tt.incoming}, WithClock(clock))
			if got := summarize(merged.Topics); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("unexpected topics:\n got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestMerge_NotesAndNewTopics(t *testing.T) {
	current := prefs.PreferenceSet{Topics: []prefs.Topic{
		{Title: "A", Notes: "mine"},
		{Title: "B", Notes: ""},
		{Title: "C", Notes: "same"},
		{Title: "Keep", Notes: "untouched"},
	}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{
		{Title: "A", Notes: "theirs"},
		{Title: "B", Notes: "theirs"},
		{Title: "C", Notes: "same"},
		{Title: "New", Importance: 4},
	}}

	merged := Merge(current, incoming, WithClock(clock), WithNotesSeparator(" | "))
	notes := []string{}
	for _, topic := range merged.Topics {
		notes = append(notes, topic.Notes)
	}
	want := []string{"mine | theirs", "theirs", "same", "untouched", ""}
	if !reflect.DeepEqual(notes, want) {
		t.Fatalf("unexpected notes: %#v", notes)
	}
	if merged.Topics[4].Title != "New" || merged.Topics[4].Importance != 4 {
		t.Fatalf("expected new topic appended verbatim, got %+v", merged.Topics[4])
	}
}

func TestMerge_DefaultSeparator(t *testing.T) {
	current := prefs.PreferenceSet{Topics: []prefs.Topic{{Title: "A", Notes: "mine"}}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{{Title: "A", Notes: "theirs"}}}
	merged := Merge(current, incoming, WithClock(clock))
	if merged.Topics[0].Notes != "mine"+DefaultNotesSeparator+"theirs" {
		t.Fatalf("unexpected notes: %q", merged.Topics[0].Notes)
	}
}

func TestMerge_DirectionWithoutMatchKept(t *testing.T) {
	current := prefs.PreferenceSet{Topics: []prefs.Topic{{
		Title:      "Transit",
		Directions: []prefs.Direction{{ID: "d1", Text: "Rail", Stars: 3, Notes: "keep"}},
	}}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{{Title: "Transit"}}}

	merged := Merge(current, incoming, WithClock(clock))
	if !reflect.DeepEqual(merged.Topics[0].Directions, current.Topics[0].Directions) {
		t.Fatalf("unmatched direction changed: %+v", merged.Topics[0].Directions)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	current := prefs.PreferenceSet{Topics: []prefs.Topic{{
		Title:      "Transit",
		Directions: []prefs.Direction{{Text: "Rail", Stars: 1}},
	}}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{{
		Title:      "Transit",
		Directions: []prefs.Direction{{Text: "Rail", Stars: 5}},
	}}}

	_ = Merge(current, incoming, WithClock(clock))
	if current.Topics[0].Directions[0].Stars != 1 {
		t.Fatalf("current mutated")
	}
}

func TestMergeSelected(t *testing.T) {
	current := prefs.PreferenceSet{Topics: []prefs.Topic{
		{Title: "Transit", Directions: []prefs.Direction{{Text: "Rail", Stars: 1}}},
		{Title: "Housing", Directions: []prefs.Direction{{Text: "Zoning", Stars: 1}}},
	}}
	incoming := prefs.PreferenceSet{Topics: []prefs.Topic{
		{Title: "Transit", Directions: []prefs.Direction{{Text: "Rail", Stars: 5}}},
		{Title: "Housing", Directions: []prefs.Direction{{Text: "Zoning", Stars: 5}}},
		{Title: "Energy"},
		{Title: "Healthcare"},
	}}

	merged := MergeSelected(current, incoming, []string{" transit ", "HEALTHCARE"}, WithClock(clock))

	if len(merged.Topics) != 3 {
		t.Fatalf("expected 3 topics, got %d: %+v", len(merged.Topics), merged.Topics)
	}
	if merged.Topics[0].Directions[0].Stars != 5 {
		t.Fatalf("expected accepted topic merged")
	}
	if merged.Topics[1].Directions[0].Stars != 1 {
		t.Fatalf("expected non-accepted topic untouched")
	}
	if merged.Topics[2].Title != "Healthcare" {
		t.Fatalf("expected accepted new topic appended, got %q", merged.Topics[2].Title)
	}
}
