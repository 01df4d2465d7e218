package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"prefset/internal/prefs"
	"prefset/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	client, err := New(ctx, "sqlite://"+filepath.Join(t.TempDir(), "prefset.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { client.Close(ctx) })

	for i := 0; i < 2; i++ {
		if err := client.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema (run %d): %v", i+1, err)
		}
	}
	return client
}

func transitSet(title string) prefs.PreferenceSet {
	return prefs.PreferenceSet{
		Version: prefs.Version,
		Title:   title,
		Topics: []prefs.Topic{{
			ID:         "t1",
			Title:      "Transit",
			Importance: 4,
			Stance:     prefs.StanceFor,
			Directions: []prefs.Direction{{ID: "d1", Text: "Expand rail", Stars: 5, Sources: []prefs.Source{}, Tags: []string{}}},
			Sources:    []prefs.Source{},
			Relations:  prefs.Relations{Broader: []string{}, Narrower: []string{}, Related: []string{}},
		}},
	}
}

func TestClient_SetLifecycle(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	input := store.SetInput{Name: "Mine", SourceFile: "sets/mine.json", SourceHash: "h1", Set: transitSet("My set")}
	if err := client.UpsertSet(ctx, input); err != nil {
		t.Fatalf("UpsertSet: %v", err)
	}
	if err := client.UpsertSet(ctx, store.SetInput{Name: "draft", Set: prefs.PreferenceSet{Title: "Draft"}}); err != nil {
		t.Fatalf("UpsertSet: %v", err)
	}

	record, err := client.GetSet(ctx, " MINE ")
	if err != nil {
		t.Fatalf("GetSet: %v", err)
	}
	if record == nil {
		t.Fatalf("expected set")
	}
	if record.Name != "Mine" || record.SourceHash != "h1" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if !reflect.DeepEqual(record.Set.Topics, input.Set.Topics) {
		t.Fatalf("document changed in storage:\n got %+v\nwant %+v", record.Set.Topics, input.Set.Topics)
	}

	missing, err := client.GetSet(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("expected nil record for missing set, got %+v, %v", missing, err)
	}

	summaries, err := client.ListSets(ctx)
	if err != nil {
		t.Fatalf("ListSets: %v", err)
	}
	want := []store.SetSummary{
		{Name: "draft", Title: "Draft", TopicCount: 0},
		{Name: "Mine", Title: "My set", TopicCount: 1, SourceFile: "sets/mine.json"},
	}
	if !reflect.DeepEqual(summaries, want) {
		t.Fatalf("unexpected summaries:\n got %+v\nwant %+v", summaries, want)
	}

	input.SourceHash = "h2"
	input.Set.Title = "Renamed"
	if err := client.UpsertSet(ctx, input); err != nil {
		t.Fatalf("UpsertSet update: %v", err)
	}
	hashes, err := client.GetSourceHashes(ctx)
	if err != nil {
		t.Fatalf("GetSourceHashes: %v", err)
	}
	if !reflect.DeepEqual(hashes, map[string]string{"sets/mine.json": "h2"}) {
		t.Fatalf("unexpected hashes: %v", hashes)
	}

	results, err := client.SearchSets(ctx, "rail")
	if err != nil {
		t.Fatalf("SearchSets: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Mine" || results[0].Title != "Renamed" {
		t.Fatalf("unexpected search results: %+v", results)
	}

	removed, err := client.RemoveStaleSets(ctx, []string{"sets/other.json"})
	if err != nil {
		t.Fatalf("RemoveStaleSets: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 stale set removed, got %d", removed)
	}

	deleted, err := client.DeleteSet(ctx, "Draft")
	if err != nil || !deleted {
		t.Fatalf("DeleteSet: %v, %v", deleted, err)
	}
	deleted, err = client.DeleteSet(ctx, "Draft")
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false, got %v, %v", deleted, err)
	}

	summaries, err = client.ListSets(ctx)
	if err != nil {
		t.Fatalf("ListSets: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected empty store, got %+v", summaries)
	}
}

func TestClient_RemoveStaleSetsEmptyList(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	if err := client.UpsertSet(ctx, store.SetInput{Name: "a", SourceFile: "a.json", Set: transitSet("A")}); err != nil {
		t.Fatalf("UpsertSet: %v", err)
	}
	removed, err := client.RemoveStaleSets(ctx, nil)
	if err != nil || removed != 0 {
		t.Fatalf("expected nothing removed, got %d, %v", removed, err)
	}
}

func TestClient_SearchSetsEmptyQuery(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.SearchSets(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty query")
	}
}

func TestClient_Memory(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close(ctx)
	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := client.UpsertSet(ctx, store.SetInput{Name: "a", Set: transitSet("A")}); err != nil {
		t.Fatalf("UpsertSet: %v", err)
	}
	record, err := client.GetSet(ctx, "a")
	if err != nil || record == nil {
		t.Fatalf("GetSet: %+v, %v", record, err)
	}
}
