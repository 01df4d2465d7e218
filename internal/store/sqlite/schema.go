package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS preference_sets (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL,
	name_normalized TEXT NOT NULL,
	title           TEXT NOT NULL DEFAULT '',
	topic_count     INTEGER NOT NULL DEFAULT 0,
	source_file     TEXT DEFAULT '',
	source_hash     TEXT DEFAULT '',
	document        TEXT NOT NULL DEFAULT '{}',
	search_text     TEXT DEFAULT '',
	last_ingested   TEXT DEFAULT (datetime('now')),
	CONSTRAINT uq_set_name UNIQUE (name_normalized)
);

CREATE INDEX IF NOT EXISTS idx_sets_source_file ON preference_sets (source_file);

CREATE VIRTUAL TABLE IF NOT EXISTS sets_fts USING fts5(
	name,
	title,
	search_text,
	content=preference_sets,
	content_rowid=id
);

CREATE TRIGGER IF NOT EXISTS sets_ai AFTER INSERT ON preference_sets BEGIN
	INSERT INTO sets_fts(rowid, name, title, search_text)
	VALUES (new.id, new.name, new.title, new.search_text);
END;

CREATE TRIGGER IF NOT EXISTS sets_ad AFTER DELETE ON preference_sets BEGIN
	INSERT INTO sets_fts(sets_fts, rowid, name, title, search_text)
	VALUES ('delete', old.id, old.name, old.title, old.search_text);
END;

CREATE TRIGGER IF NOT EXISTS sets_au AFTER UPDATE ON preference_sets BEGIN
	INSERT INTO sets_fts(sets_fts, rowid, name, title, search_text)
	VALUES ('delete', old.id, old.name, old.title, old.search_text);
	INSERT INTO sets_fts(rowid, name, title, search_text)
	VALUES (new.id, new.name, new.title, new.search_text);
END;
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements splits on lines ending in ";". Trigger bodies are kept whole
// until their closing END;.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inTrigger := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		upper := strings.ToUpper(stripped)
		if strings.HasSuffix(upper, " BEGIN") {
			inTrigger = true
		}
		if !strings.HasSuffix(stripped, ";") {
			continue
		}
		if inTrigger && upper != "END;" {
			continue
		}
		inTrigger = false
		statements = append(statements, current.String())
		current.Reset()
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}
