package postgres

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

	sql := `
SELECT name, title,
    ts_rank(search_vector, websearch_to_tsquery('english', $1)) AS score,
    ts_headline('english', search_text, websearch_to_tsquery('english', $1),
        'MaxFragments=1, MaxWords=24, MinWords=8, StartSel=**, StopSel=**') AS snippet
FROM preference_sets
WHERE search_vector @@ websearch_to_tsquery('english', $1)
ORDER BY score DESC, name_normalized ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("searching sets: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var score float32
		if err := rows.Scan(&r.Name, &r.Title, &score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Score = float64(score)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}
