package diff

import "prefset/internal/prefs"

// PriorityComparison is one heatmap row: a topic's importance on each side.
type PriorityComparison struct {
	TopicID         string `json:"topicId"`
	TopicTitle      string `json:"topicTitle"`
	LeftImportance  int    `json:"leftImportance"`
	RightImportance int    `json:"rightImportance"`
	ImportanceDiff  int    `json:"importanceDiff"`
}

// ComputePriorityComparison returns one row per normalized title present on
// either side: left topics in order, then right-only topics. An absent side
// counts as importance 0.
func ComputePriorityComparison(left, right prefs.PreferenceSet) []PriorityComparison {
	rows := make([]PriorityComparison, 0, len(left.Topics)+len(right.Topics))
	seen := make(map[string]struct{}, len(left.Topics)+len(right.Topics))

	for _, leftTopic := range left.Topics {
		key := prefs.Normalize(leftTopic.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		row := PriorityComparison{
			TopicID:        leftTopic.ID,
			TopicTitle:     leftTopic.Title,
			LeftImportance: leftTopic.Importance,
		}
		if idx, ok := prefs.FindTopicByTitle(leftTopic.Title, right.Topics); ok {
			row.RightImportance = right.Topics[idx].Importance
		}
		row.ImportanceDiff = row.RightImportance - row.LeftImportance
		rows = append(rows, row)
	}

	for _, rightTopic := range right.Topics {
		key := prefs.Normalize(rightTopic.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, PriorityComparison{
			TopicID:         rightTopic.ID,
			TopicTitle:      rightTopic.Title,
			RightImportance: rightTopic.Importance,
			ImportanceDiff:  rightTopic.Importance,
		})
	}

	return rows
}
