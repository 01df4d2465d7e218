package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"prefset/internal/store"
)

func (c *Client) UpsertSet(ctx context.Context, s store.SetInput) error {
	document, err := json.Marshal(s.Set)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}

	query := `
	INSERT INTO preference_sets (name, name_normalized, title, topic_count, source_file, source_hash, document, search_text, last_ingested)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (name_normalized) DO UPDATE SET
		name = excluded.name,
		title = excluded.title,
		topic_count = excluded.topic_count,
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		document = excluded.document,
		search_text = excluded.search_text,
		last_ingested = datetime('now')
	`

	_, err = c.db.ExecContext(ctx, query,
		s.Name,
		store.NormalizeName(s.Name),
		s.Set.Title,
		len(s.Set.Topics),
		s.SourceFile,
		s.SourceHash,
		string(document),
		store.SearchText(s.Set),
	)
	if err != nil {
		return fmt.Errorf("upserting set: %w", err)
	}
	return nil
}

func (c *Client) GetSet(ctx context.Context, name string) (*store.SetRecord, error) {
	query := `
	SELECT name, source_file, source_hash, document
	FROM preference_sets
	WHERE name_normalized = ?
	`

	rows, err := c.db.QueryContext(ctx, query, store.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("getting set: %w", err)
	}
	defer rows.Close()

	var records []store.SetRecord
	for rows.Next() {
		var r store.SetRecord
		var document []byte
		if err := rows.Scan(&r.Name, &r.SourceFile, &r.SourceHash, &document); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		if err := json.Unmarshal(document, &r.Set); err != nil {
			return nil, fmt.Errorf("unmarshaling document: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating set rows: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if len(records) > 1 {
		return nil, fmt.Errorf("internal error: set uniqueness constraint violated (found %d rows for %q)", len(records), name)
	}

	return &records[0], nil
}

func (c *Client) ListSets(ctx context.Context) ([]store.SetSummary, error) {
	query := `
	SELECT name, title, topic_count, source_file
	FROM preference_sets
	ORDER BY name_normalized
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sets: %w", err)
	}
	defer rows.Close()

	summaries := []store.SetSummary{}
	for rows.Next() {
		var s store.SetSummary
		if err := rows.Scan(&s.Name, &s.Title, &s.TopicCount, &s.SourceFile); err != nil {
			return nil, fmt.Errorf("scanning set summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating set summaries: %w", err)
	}

	return summaries, nil
}

func (c *Client) DeleteSet(ctx context.Context, name string) (bool, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM preference_sets WHERE name_normalized = ?",
		store.NormalizeName(name),
	)
	if err != nil {
		return false, fmt.Errorf("deleting set: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	return affected > 0, nil
}
