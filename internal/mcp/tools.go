package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"prefset/internal/diff"
	"prefset/internal/merge"
	"prefset/internal/prefs"
	"prefset/internal/share"
	"prefset/internal/store"
)

type ListSetsInput struct{}

type GetSetInput struct {
	Name string `json:"name" jsonschema:"preference set name"`
}

type SearchSetsInput struct {
	Query string `json:"query" jsonschema:"search terms"`
}

type CompareSetsInput struct {
	Left  string `json:"left" jsonschema:"name of the left (current) set"`
	Right string `json:"right" jsonschema:"name of the right (incoming) set"`
}

type MergeSetsInput struct {
	Current  string   `json:"current" jsonschema:"name of the set that keeps its edits"`
	Incoming string   `json:"incoming" jsonschema:"name of the set merged in"`
	Accept   []string `json:"accept,omitempty" jsonschema:"topic titles to merge; all topics when empty"`
}

type EncodeShareInput struct {
	Name    string `json:"name" jsonschema:"preference set name"`
	BaseURL string `json:"base_url,omitempty" jsonschema:"url the share fragment is appended to"`
	Legacy  bool   `json:"legacy,omitempty" jsonschema:"emit the legacy dense payload"`
}

type DecodeShareInput struct {
	Payload string `json:"payload,omitempty" jsonschema:"encoded share payload"`
	URL     string `json:"url,omitempty" jsonschema:"share url carrying the payload in its fragment"`
	ApplyTo string `json:"apply_to,omitempty" jsonschema:"set to apply the decoded values to"`
}

type SetSummaryOutput struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	TopicCount int    `json:"topic_count"`
	SourceFile string `json:"source_file"`
}

type ListSetsOutput struct {
	Sets []SetSummaryOutput `json:"sets"`
}

type DirectionOutput struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Stars int    `json:"stars"`
	Notes string `json:"notes,omitempty"`
}

type TopicOutput struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Importance int               `json:"importance"`
	Stance     string            `json:"stance"`
	Notes      string            `json:"notes,omitempty"`
	Directions []DirectionOutput `json:"directions"`
}

type SetOutput struct {
	Name       string        `json:"name,omitempty"`
	Title      string        `json:"title"`
	Notes      string        `json:"notes,omitempty"`
	SourceFile string        `json:"source_file,omitempty"`
	Topics     []TopicOutput `json:"topics"`
}

type SearchResultOutput struct {
	Name    string  `json:"name"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

type SearchSetsOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type TopicChangeOutput struct {
	TopicID string            `json:"topic_id"`
	Title   string            `json:"title"`
	Changes diff.TopicChanges `json:"changes"`
}

type DiffSetsOutput struct {
	Summary   diff.Summary        `json:"summary"`
	Added     []string            `json:"added"`
	Removed   []string            `json:"removed"`
	Modified  []TopicChangeOutput `json:"modified"`
	Unchanged []string            `json:"unchanged"`
}

type PriorityComparisonOutput struct {
	Rows []diff.PriorityComparison `json:"rows"`
}

type MergeSetsOutput struct {
	Set SetOutput `json:"set"`
}

type EncodeShareOutput struct {
	Pack    string `json:"pack"`
	Payload string `json:"payload"`
	URL     string `json:"url,omitempty"`
}

type TopicRatingOutput struct {
	Topic      int    `json:"topic"`
	TopicID    string `json:"topic_id"`
	Importance int    `json:"importance"`
}

type DirectionRatingOutput struct {
	Topic       int    `json:"topic"`
	Direction   int    `json:"direction"`
	DirectionID string `json:"direction_id"`
	Stars       int    `json:"stars"`
}

type DecodeShareOutput struct {
	Pack       string                  `json:"pack"`
	Topics     []TopicRatingOutput     `json:"topics"`
	Directions []DirectionRatingOutput `json:"directions"`
	Applied    int                     `json:"applied,omitempty"`
	Set        *SetOutput              `json:"set,omitempty"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_sets",
		Description: "List stored preference sets",
	}, s.handleListSets)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_set",
		Description: "Retrieve a preference set with its topics and directions",
	}, s.handleGetSet)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_sets",
		Description: "Search preference sets by titles, notes, and direction text",
	}, s.handleSearchSets)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "diff_sets",
		Description: "Compare two preference sets topic by topic",
	}, s.handleDiffSets)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "priority_comparison",
		Description: "Compare topic importance between two preference sets",
	}, s.handlePriorityComparison)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "merge_sets",
		Description: "Merge an incoming preference set into the current one without saving it",
	}, s.handleMergeSets)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "encode_share",
		Description: "Encode a preference set as a compact share payload",
	}, s.handleEncodeShare)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "decode_share",
		Description: "Decode a share payload or url, optionally applying it to a stored set",
	}, s.handleDecodeShare)
}

func (s *Server) handleListSets(ctx context.Context, req *sdk.CallToolRequest, input ListSetsInput) (*sdk.CallToolResult, ListSetsOutput, error) {
	items, err := s.db.ListSets(ctx)
	if err != nil {
		return nil, ListSetsOutput{}, err
	}

	output := make([]SetSummaryOutput, 0, len(items))
	for _, item := range items {
		output = append(output, SetSummaryOutput{
			Name:       item.Name,
			Title:      item.Title,
			TopicCount: item.TopicCount,
			SourceFile: item.SourceFile,
		})
	}
	return nil, ListSetsOutput{Sets: output}, nil
}

func (s *Server) handleGetSet(ctx context.Context, req *sdk.CallToolRequest, input GetSetInput) (*sdk.CallToolResult, SetOutput, error) {
	record, err := s.loadSet(ctx, input.Name)
	if err != nil {
		return nil, SetOutput{}, err
	}
	out := setOutput(record.Set)
	out.Name = record.Name
	out.SourceFile = record.SourceFile
	return nil, out, nil
}

func (s *Server) handleSearchSets(ctx context.Context, req *sdk.CallToolRequest, input SearchSetsInput) (*sdk.CallToolResult, SearchSetsOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchSetsOutput{}, fmt.Errorf("query is required")
	}
	results, err := s.db.SearchSets(ctx, input.Query)
	if err != nil {
		return nil, SearchSetsOutput{}, err
	}

	output := make([]SearchResultOutput, 0, len(results))
	for _, result := range results {
		output = append(output, SearchResultOutput{
			Name:    result.Name,
			Title:   result.Title,
			Score:   result.Score,
			Snippet: result.Snippet,
		})
	}
	return nil, SearchSetsOutput{Results: output}, nil
}

func (s *Server) handleDiffSets(ctx context.Context, req *sdk.CallToolRequest, input CompareSetsInput) (*sdk.CallToolResult, DiffSetsOutput, error) {
	left, right, err := s.loadPair(ctx, input.Left, input.Right)
	if err != nil {
		return nil, DiffSetsOutput{}, err
	}

	d := diff.Compute(left.Set, right.Set)
	out := DiffSetsOutput{
		Summary:   d.Summary(),
		Added:     topicTitles(d.Added),
		Removed:   topicTitles(d.Removed),
		Modified:  make([]TopicChangeOutput, 0, len(d.Modified)),
		Unchanged: topicTitles(d.Unchanged),
	}
	for _, m := range d.Modified {
		out.Modified = append(out.Modified, TopicChangeOutput{TopicID: m.TopicID, Title: m.Title, Changes: m.Changes})
	}
	s.logger.Debug("diffed sets", "left", left.Name, "right", right.Name, "modified", len(d.Modified))
	return nil, out, nil
}

func (s *Server) handlePriorityComparison(ctx context.Context, req *sdk.CallToolRequest, input CompareSetsInput) (*sdk.CallToolResult, PriorityComparisonOutput, error) {
	left, right, err := s.loadPair(ctx, input.Left, input.Right)
	if err != nil {
		return nil, PriorityComparisonOutput{}, err
	}
	return nil, PriorityComparisonOutput{Rows: diff.ComputePriorityComparison(left.Set, right.Set)}, nil
}

func (s *Server) handleMergeSets(ctx context.Context, req *sdk.CallToolRequest, input MergeSetsInput) (*sdk.CallToolResult, MergeSetsOutput, error) {
	current, incoming, err := s.loadPair(ctx, input.Current, input.Incoming)
	if err != nil {
		return nil, MergeSetsOutput{}, err
	}

	var merged prefs.PreferenceSet
	if len(input.Accept) == 0 {
		merged = merge.Merge(current.Set, incoming.Set, s.mergeOpts...)
	} else {
		merged = merge.MergeSelected(current.Set, incoming.Set, input.Accept, s.mergeOpts...)
	}
	out := setOutput(merged)
	out.Name = current.Name
	return nil, MergeSetsOutput{Set: out}, nil
}

func (s *Server) handleEncodeShare(ctx context.Context, req *sdk.CallToolRequest, input EncodeShareInput) (*sdk.CallToolResult, EncodeShareOutput, error) {
	record, err := s.loadSet(ctx, input.Name)
	if err != nil {
		return nil, EncodeShareOutput{}, err
	}

	var payload string
	if input.Legacy {
		payload, err = s.codec.EncodeDense(record.Set.Topics)
	} else {
		payload, err = s.codec.Encode(record.Set.Topics)
	}
	if err != nil {
		return nil, EncodeShareOutput{}, err
	}

	out := EncodeShareOutput{Pack: s.codec.PackID(), Payload: payload}
	if input.BaseURL != "" {
		out.URL = share.BuildURL(input.BaseURL, payload, input.Legacy)
	}
	return nil, out, nil
}

func (s *Server) handleDecodeShare(ctx context.Context, req *sdk.CallToolRequest, input DecodeShareInput) (*sdk.CallToolResult, DecodeShareOutput, error) {
	var (
		payload *share.Payload
		err     error
	)
	switch {
	case input.Payload != "":
		payload, err = s.codec.Decode(input.Payload)
	case input.URL != "":
		payload, err = s.codec.DecodeURL(input.URL)
	default:
		return nil, DecodeShareOutput{}, fmt.Errorf("payload or url is required")
	}
	if err != nil {
		return nil, DecodeShareOutput{}, err
	}

	out := decodeShareOutput(s.codec, payload)
	if input.ApplyTo == "" {
		return nil, out, nil
	}

	record, err := s.loadSet(ctx, input.ApplyTo)
	if err != nil {
		return nil, DecodeShareOutput{}, err
	}
	applied := s.codec.Apply(payload, record.Set.Topics)
	set := record.Set
	set.Topics = applied.Topics
	setOut := setOutput(set)
	setOut.Name = record.Name
	out.Applied = applied.Applied
	out.Set = &setOut
	return nil, out, nil
}

func (s *Server) loadSet(ctx context.Context, name string) (*store.SetRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	record, err := s.db.GetSet(ctx, name)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("set not found: %s", name)
	}
	return record, nil
}

func (s *Server) loadPair(ctx context.Context, left, right string) (*store.SetRecord, *store.SetRecord, error) {
	l, err := s.loadSet(ctx, left)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.loadSet(ctx, right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func setOutput(set prefs.PreferenceSet) SetOutput {
	out := SetOutput{
		Title:  set.Title,
		Notes:  set.Notes,
		Topics: make([]TopicOutput, 0, len(set.Topics)),
	}
	for _, topic := range set.Topics {
		topicOut := TopicOutput{
			ID:         topic.ID,
			Title:      topic.Title,
			Importance: topic.Importance,
			Stance:     string(topic.Stance),
			Notes:      topic.Notes,
			Directions: make([]DirectionOutput, 0, len(topic.Directions)),
		}
		for _, direction := range topic.Directions {
			topicOut.Directions = append(topicOut.Directions, DirectionOutput{
				ID:    direction.ID,
				Text:  direction.Text,
				Stars: direction.Stars,
				Notes: direction.Notes,
			})
		}
		out.Topics = append(out.Topics, topicOut)
	}
	return out
}

func topicTitles(topics []prefs.Topic) []string {
	titles := make([]string, 0, len(topics))
	for _, topic := range topics {
		titles = append(titles, topic.Title)
	}
	return titles
}

// decodeShareOutput labels payload coordinates with pack ids. Coordinates the
// pack does not know are dropped.
func decodeShareOutput(codec *share.Codec, payload *share.Payload) DecodeShareOutput {
	index := codec.Index()
	out := DecodeShareOutput{
		Pack:       payload.V,
		Topics:     make([]TopicRatingOutput, 0, len(payload.TIP)),
		Directions: make([]DirectionRatingOutput, 0, len(payload.DSP)),
	}
	for _, tuple := range payload.TIP {
		if !index.ValidTopic(tuple[0]) {
			continue
		}
		out.Topics = append(out.Topics, TopicRatingOutput{
			Topic:      tuple[0],
			TopicID:    index.TopicID(tuple[0]),
			Importance: tuple[1],
		})
	}
	for _, tuple := range payload.DSP {
		if !index.ValidDirection(tuple[0], tuple[1]) {
			continue
		}
		out.Directions = append(out.Directions, DirectionRatingOutput{
			Topic:       tuple[0],
			Direction:   tuple[1],
			DirectionID: index.DirectionID(tuple[0], tuple[1]),
			Stars:       tuple[2],
		})
	}
	return out
}
