package sqlite

import (
	"context"
	"fmt"
	"strings"

	"prefset/internal/store"
)

func (c *Client) SearchSets(ctx context.Context, query string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sqlQuery := `
	SELECT s.name, s.title,
		   -bm25(sets_fts, 10.0, 6.0, 1.0) AS score,
		   snippet(sets_fts, 2, '**', '**', '...', 24) AS snippet
	FROM sets_fts
	JOIN preference_sets s ON sets_fts.rowid = s.id
	WHERE sets_fts MATCH ?
	ORDER BY score DESC, s.name_normalized ASC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, convertWebsearchToFTS5(query))
	if err != nil {
		return nil, fmt.Errorf("searching sets: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.Name, &r.Title, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}

// convertWebsearchToFTS5 rewrites web-search syntax (bare terms, "phrases",
// -negation, AND/OR/NOT) into an FTS5 MATCH expression. Adjacent terms are
// joined with AND, as postgres websearch_to_tsquery does.
func convertWebsearchToFTS5(query string) string {
	var out []string
	afterOperator := false
	for _, token := range tokenizeQuery(query) {
		switch upper := strings.ToUpper(token); upper {
		case "AND", "OR", "NOT":
			out = append(out, upper)
			afterOperator = true
			continue
		}

		if len(out) > 0 && !afterOperator {
			out = append(out, "AND")
		}
		afterOperator = false
		if len(token) > 1 && token[0] == '-' {
			out = append(out, "NOT", token[1:])
			continue
		}
		out = append(out, token)
	}
	return strings.Join(out, " ")
}

// tokenizeQuery splits on whitespace, keeping quoted phrases whole with their
// quotes.
func tokenizeQuery(query string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range query {
		switch {
		case r == '"' && inQuote:
			inQuote = false
			if current.Len() > 0 {
				tokens = append(tokens, `"`+current.String()+`"`)
				current.Reset()
			}
		case r == '"':
			flush()
			inQuote = true
		case inQuote:
			current.WriteRune(r)
		case r == ' ' || r == '\t':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if inQuote && current.Len() > 0 {
		tokens = append(tokens, `"`+current.String()+`"`)
		current.Reset()
	}
	flush()

	return tokens
}
