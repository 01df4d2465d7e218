package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// Postgres runs a multi-statement Exec in one implicit transaction, and
	// every statement is IF NOT EXISTS, so this is safe to repeat.
	ddl := `
CREATE TABLE IF NOT EXISTS preference_sets (
    id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name            TEXT NOT NULL,
    name_normalized TEXT NOT NULL,
    title           TEXT NOT NULL DEFAULT '',
    topic_count     INTEGER NOT NULL DEFAULT 0,
    source_file     TEXT DEFAULT '',
    source_hash     TEXT DEFAULT '',
    document        JSONB NOT NULL DEFAULT '{}',
    search_text     TEXT DEFAULT '',
    search_vector   TSVECTOR,
    last_ingested   TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_set_name UNIQUE (name_normalized)
);

CREATE INDEX IF NOT EXISTS idx_sets_search ON preference_sets USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_sets_source_file ON preference_sets (source_file);
CREATE INDEX IF NOT EXISTS idx_sets_topics ON preference_sets USING GIN ((document -> 'topics') jsonb_path_ops);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
