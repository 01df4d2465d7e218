package diff

import (
	"encoding/json"
	"reflect"
	"testing"

	"prefset/internal/prefs"
)

func climateDoc() prefs.PreferenceSet {
	return prefs.PreferenceSet{
		Version: prefs.Version,
		Title:   "Mine",
		Topics: []prefs.Topic{
			{
				ID:         "t-climate",
				Title:      "Climate Change",
				Importance: 5,
				Stance:     prefs.StanceFor,
				Directions: []prefs.Direction{
					{ID: "d1", Text: "Carbon tax", Stars: 5},
					{ID: "d2", Text: "Nuclear power", Stars: 3},
				},
			},
			{ID: "t-edu", Title: "Education", Importance: 3},
		},
	}
}

func TestCompute_Identical(t *testing.T) {
	blank := prefs.PreferenceSet{
		Version: prefs.Version,
		Topics: []prefs.Topic{
			{ID: "t1", Importance: 2, Directions: []prefs.Direction{
				{ID: "d1", Stars: 4},
				{ID: "d2", Text: "Named", Stars: 1},
			}},
			{ID: "t2", Title: "Water", Importance: 1, Directions: []prefs.Direction{
				{ID: "d3", Text: "  ", Stars: 2},
			}},
		},
	}

	tests := []struct {
		name string
		doc  prefs.PreferenceSet
	}{
		{name: "titled", doc: climateDoc()},
		{name: "blank title and direction text", doc: blank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(tt.doc, tt.doc)

			if len(result.Added) != 0 || len(result.Removed) != 0 || len(result.Modified) != 0 {
				t.Fatalf("expected no changes, got %+v", result.Summary())
			}
			if len(result.Unchanged) != len(tt.doc.Topics) {
				t.Fatalf("expected %d unchanged, got %d", len(tt.doc.Topics), len(result.Unchanged))
			}
			if result.HasChanges() {
				t.Fatalf("expected HasChanges false")
			}
		})
	}
}

func TestCompute_BlankKeys(t *testing.T) {
	left := prefs.PreferenceSet{Topics: []prefs.Topic{
		{ID: "a", Importance: 2, Directions: []prefs.Direction{{ID: "d1", Stars: 1}}},
	}}
	right := prefs.PreferenceSet{Topics: []prefs.Topic{
		{ID: "b", Title: " ", Importance: 2, Directions: []prefs.Direction{{ID: "d9", Stars: 5}}},
		{ID: "c", Title: "Water"},
	}}

	result := Compute(left, right)
	if len(result.Removed) != 0 || len(result.Added) != 1 || result.Added[0].Title != "Water" {
		t.Fatalf("expected untitled topics paired, got %+v", result.Summary())
	}
	if len(result.Modified) != 1 {
		t.Fatalf("expected one modified topic, got %+v", result.Summary())
	}
	dirs := result.Modified[0].Changes.Directions
	if len(dirs.Added) != 0 || len(dirs.Removed) != 0 {
		t.Fatalf("expected blank directions paired, got %+v", dirs)
	}
	if len(dirs.Modified) != 1 || dirs.Modified[0].Changes.Stars == nil || dirs.Modified[0].Changes.Stars.Right != 5 {
		t.Fatalf("expected star change on blank direction, got %+v", dirs)
	}
}

func TestCompute_Classification(t *testing.T) {
	left := climateDoc()
	right := prefs.PreferenceSet{
		Version: prefs.Version,
		Topics: []prefs.Topic{
			{
				ID:         "other-id",
				Title:      "Climate Change",
				Importance: 4,
				Directions: []prefs.Direction{
					{ID: "x1", Text: "Carbon tax", Stars: 4},
					{ID: "x2", Text: "Nuclear power", Stars: 3},
				},
			},
			{ID: "t-health", Title: "Healthcare", Importance: 4},
		},
	}

	result := Compute(left, right)

	if len(result.Added) != 1 || result.Added[0].Title != "Healthcare" {
		t.Fatalf("unexpected added: %+v", result.Added)
	}
	if len(result.Removed) != 1 || result.Removed[0].Title != "Education" {
		t.Fatalf("unexpected removed: %+v", result.Removed)
	}
	if len(result.Unchanged) != 0 {
		t.Fatalf("expected no unchanged, got %+v", result.Unchanged)
	}
	if len(result.Modified) != 1 {
		t.Fatalf("expected 1 modified, got %d", len(result.Modified))
	}

	modified := result.Modified[0]
	if modified.Title != "Climate Change" || modified.TopicID != "t-climate" {
		t.Fatalf("unexpected modified topic: %s (%s)", modified.Title, modified.TopicID)
	}
	if !reflect.DeepEqual(modified.Changes.Importance, &Change[int]{Left: 5, Right: 4}) {
		t.Fatalf("unexpected importance change: %+v", modified.Changes.Importance)
	}
	if modified.Changes.Notes != nil || modified.Changes.Title != nil {
		t.Fatalf("expected no notes/title change")
	}

	dirs := modified.Changes.Directions
	if len(dirs.Modified) != 1 || len(dirs.Unchanged) != 1 || len(dirs.Added) != 0 || len(dirs.Removed) != 0 {
		t.Fatalf("unexpected direction diff: %+v", dirs)
	}
	if !reflect.DeepEqual(dirs.Modified[0].Changes.Stars, &Change[int]{Left: 5, Right: 4}) {
		t.Fatalf("unexpected stars change: %+v", dirs.Modified[0].Changes.Stars)
	}
	if dirs.Modified[0].DirectionID != "d1" {
		t.Fatalf("expected left direction id, got %q", dirs.Modified[0].DirectionID)
	}
}

func TestCompute_TitleMatchIgnoresCaseAndIDs(t *testing.T) {
	left := prefs.PreferenceSet{Topics: []prefs.Topic{{ID: "a", Title: "Transit", Importance: 2}}}
	right := prefs.PreferenceSet{Topics: []prefs.Topic{{ID: "b", Title: " TRANSIT ", Importance: 2}}}

	result := Compute(left, right)
	if len(result.Added) != 0 || len(result.Removed) != 0 {
		t.Fatalf("expected title match, got %+v", result.Summary())
	}
	if len(result.Modified) != 1 || result.Modified[0].Changes.Title == nil {
		t.Fatalf("expected title-only modification, got %+v", result.Modified)
	}
}

func TestCompute_DirectionAddedRemovedAndNotes(t *testing.T) {
	left := prefs.PreferenceSet{Topics: []prefs.Topic{{
		Title:      "Transit",
		Directions: []prefs.Direction{
			{Text: "Expand rail", Stars: 4},
			{Text: "Widen highways", Stars: 1},
		},
	}}}
	right := prefs.PreferenceSet{Topics: []prefs.Topic{{
		Title:      "Transit",
		Notes:      "new notes",
		Directions: []prefs.Direction{
			{Text: "expand rail", Stars: 4, Notes: "why"},
			{Text: "Bike lanes", Stars: 5},
		},
	}}}

	result := Compute(left, right)
	if len(result.Modified) != 1 {
		t.Fatalf("expected 1 modified, got %+v", result.Summary())
	}
	changes := result.Modified[0].Changes
	if !reflect.DeepEqual(changes.Notes, &Change[string]{Left: "", Right: "new notes"}) {
		t.Fatalf("unexpected notes change: %+v", changes.Notes)
	}
	dirs := changes.Directions
	if len(dirs.Added) != 1 || dirs.Added[0].Text != "Bike lanes" {
		t.Fatalf("unexpected added directions: %+v", dirs.Added)
	}
	if len(dirs.Removed) != 1 || dirs.Removed[0].Text != "Widen highways" {
		t.Fatalf("unexpected removed directions: %+v", dirs.Removed)
	}
	if len(dirs.Modified) != 1 {
		t.Fatalf("expected 1 modified direction, got %+v", dirs.Modified)
	}
	mod := dirs.Modified[0].Changes
	if mod.Stars != nil || mod.Text == nil || mod.Notes == nil {
		t.Fatalf("unexpected direction changes: %+v", mod)
	}
}

func TestCompute_StanceOnlyIsUnchanged(t *testing.T) {
	left := prefs.PreferenceSet{Topics: []prefs.Topic{{Title: "Transit", Stance: prefs.StanceFor}}}
	right := prefs.PreferenceSet{Topics: []prefs.Topic{{Title: "Transit", Stance: prefs.StanceAgainst}}}
	if result := Compute(left, right); len(result.Unchanged) != 1 {
		t.Fatalf("expected unchanged, got %+v", result.Summary())
	}
}

func TestCompute_Deterministic(t *testing.T) {
	left := climateDoc()
	right := climateDoc()
	right.Topics[0].Importance = 1
	right.Topics = append(right.Topics, prefs.Topic{Title: "Housing"}, prefs.Topic{Title: "Energy"})

	first, err := json.Marshal(Compute(left, right))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(Compute(left, right))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(first) != string(again) {
			t.Fatalf("diff output not deterministic")
		}
	}
}

func TestComputePriorityComparison(t *testing.T) {
	left := prefs.PreferenceSet{Topics: []prefs.Topic{
		{ID: "l1", Title: "Climate Change", Importance: 5},
		{ID: "l2", Title: "Education", Importance: 3},
	}}
	right := prefs.PreferenceSet{Topics: []prefs.Topic{
		{ID: "r1", Title: "climate change", Importance: 4},
		{ID: "r2", Title: "Healthcare", Importance: 4},
	}}

	got := ComputePriorityComparison(left, right)
	want := []PriorityComparison{
		{TopicID: "l1", TopicTitle: "Climate Change", LeftImportance: 5, RightImportance: 4, ImportanceDiff: -1},
		{TopicID: "l2", TopicTitle: "Education", LeftImportance: 3, RightImportance: 0, ImportanceDiff: -3},
		{TopicID: "r2", TopicTitle: "Healthcare", LeftImportance: 0, RightImportance: 4, ImportanceDiff: 4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected comparison:\n got %+v\nwant %+v", got, want)
	}
}
