package prefs

// Ids are not stable across independently created documents, so every lookup
// falls back to the normalized human text. On duplicate keys the first entry
// in pool order wins. A blank key is a key like any other: it matches the
// first blank entry, so an untitled topic still pairs with itself.

// MatchTopic finds candidate in pool by exact id, then by normalized title.
func MatchTopic(candidate Topic, pool []Topic) (int, bool) {
	return matchByIDThenKey(candidate.ID, candidate.Title, pool, topicID, topicTitle)
}

// MatchDirection finds candidate in pool by exact id, then by normalized text.
func MatchDirection(candidate Direction, pool []Direction) (int, bool) {
	return matchByIDThenKey(candidate.ID, candidate.Text, pool, directionID, directionText)
}

func FindTopicByTitle(title string, pool []Topic) (int, bool) {
	return matchByKey(title, pool, topicTitle)
}

func FindDirectionByText(text string, pool []Direction) (int, bool) {
	return matchByKey(text, pool, directionText)
}

func matchByIDThenKey[T any](id, key string, pool []T, idOf, keyOf func(T) string) (int, bool) {
	if id != "" {
		for i, item := range pool {
			if idOf(item) == id {
				return i, true
			}
		}
	}
	return matchByKey(key, pool, keyOf)
}

func matchByKey[T any](key string, pool []T, keyOf func(T) string) (int, bool) {
	normalized := Normalize(key)
	for i, item := range pool {
		if Normalize(keyOf(item)) == normalized {
			return i, true
		}
	}
	return -1, false
}

func topicID(t Topic) string { return t.ID }
func topicTitle(t Topic) string { return t.Title }
func directionID(d Direction) string { return d.ID }
func directionText(d Direction) string { return d.Text }
