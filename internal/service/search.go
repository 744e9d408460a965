package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"estate/internal/model"
	"estate/internal/observability"
)

// Parser sources reported on search responses
const (
	SourceRules     = "rules"
	SourceAssistant = "assistant"
)

const (
	searchSuggestionsHint = "Try adding more specific features like 'with garage' or 'near schools' for better results"
	searchMarketInsight   = "Properties in this range are selling 15% faster than last year"
)

var popularSearches = []string{
	"Homes under $500k in downtown",
	"3 bedroom houses with garage",
	"Investment properties near university",
	"New construction homes",
	"Homes with swimming pool",
	"Properties with mountain view",
}

var aiSuggestions = []string{
	"Show me family homes in good school districts",
	"Find investment properties with high rental yield",
	"Homes with modern kitchens and open floor plans",
	"Properties close to public transportation",
	"Houses with large backyards for families",
}

// SearchService runs natural language search over the fixed search catalog
type SearchService struct {
	parser      *QueryParser
	assistant   Assistant
	catalog     []model.Property
	delay       DelayStrategy
	historySize int
	logger      *slog.Logger
	metrics     *observability.Metrics

	mu      sync.Mutex
	history map[string][]string
}

// NewSearchService creates a new search service
func NewSearchService(
	parser *QueryParser,
	assistant Assistant,
	catalog []model.Property,
	delay DelayStrategy,
	historySize int,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *SearchService {
	if assistant == nil {
		assistant = DisabledAssistant{}
	}
	if delay == nil {
		delay = NoDelay{}
	}
	if historySize <= 0 {
		historySize = 5
	}
	return &SearchService{
		parser:      parser,
		assistant:   assistant,
		catalog:     catalog,
		delay:       delay,
		historySize: historySize,
		logger:      logger,
		metrics:     metrics,
		history:     make(map[string][]string),
	}
}

// SearchEventCallback is called for streaming search events
type SearchEventCallback func(event string, data any) error

// Search parses the query, waits the artificial delay and filters the catalog
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	return s.SearchStream(ctx, req, nil)
}

// SearchStream is Search with progress events. A nil callback is allowed.
func (s *SearchService) SearchStream(ctx context.Context, req *model.SearchRequest, callback SearchEventCallback) (*model.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	startTime := time.Now()

	emit := func(event string, data any) error {
		if callback == nil {
			return nil
		}
		return callback(event, data)
	}

	if err := emit("parsing", map[string]any{"status": "Understanding your query..."}); err != nil {
		return nil, err
	}

	task := After(ctx, s.delay, func(ctx context.Context) (*model.SearchResponse, error) {
		parsed, source := s.parse(ctx, query)
		if err := emit("intent", map[string]any{"query": parsed, "source": source}); err != nil {
			return nil, err
		}
		if err := emit("searching", map[string]any{"status": "Searching properties..."}); err != nil {
			return nil, err
		}

		results := RankResults(Filter(s.catalog, parsed), parsed)
		return &model.SearchResponse{
			SearchID: uuid.NewString(),
			Results:  results,
			Total:    len(results),
			Query:    parsed,
			Source:   source,
			Insights: model.SearchInsights{
				QueryUnderstanding: fmt.Sprintf("I found %d properties matching your criteria", len(results)),
				Suggestions:        searchSuggestionsHint,
				MarketInsight:      searchMarketInsight,
			},
		}, nil
	})

	resp, err := task.Wait()
	if err != nil {
		return nil, err
	}

	resp.History = s.remember(req.SessionID, query)
	resp.Took = time.Since(startTime).Milliseconds()

	s.metrics.ObserveSearch(resp.Source, resp.Total)
	s.logger.Info("search completed",
		"query", query,
		"source", resp.Source,
		"results", resp.Total,
		"took_ms", resp.Took,
	)
	return resp, nil
}

// parse prefers the assistant when it is enabled and falls back to the rules
func (s *SearchService) parse(ctx context.Context, query string) (*model.ParsedQuery, string) {
	if s.assistant.Enabled() {
		parsed, err := s.assistant.ExtractQuery(ctx, query)
		if err == nil {
			return parsed, SourceAssistant
		}
		s.metrics.ObserveAssistantFallback("search")
		s.logger.Warn("assistant extraction failed, using rule parser", "error", err)
	}

	parsed, rules := s.parser.ParseWithTrace(query)
	s.logger.Debug("query parsed", "query", query, "rules", rules)
	return parsed, SourceRules
}

// remember records the query for the session and returns the history,
// newest first. Anonymous searches are not recorded.
func (s *SearchService) remember(sessionID, query string) []string {
	if sessionID == "" {
		return []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	past := s.history[sessionID]
	updated := make([]string, 0, s.historySize)
	updated = append(updated, query)
	for _, q := range past {
		if len(updated) == s.historySize {
			break
		}
		updated = append(updated, q)
	}
	s.history[sessionID] = updated
	return append([]string(nil), updated...)
}

// History returns the recent queries for a session, newest first
func (s *SearchService) History(sessionID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.history[sessionID]...)
}

// Suggestions returns the prompts shown under the search box
func (s *SearchService) Suggestions() model.SearchSuggestions {
	return model.SearchSuggestions{
		Popular: append([]string(nil), popularSearches...),
		AI:      append([]string(nil), aiSuggestions...),
	}
}
