// Package search implements the disease-code search pipeline: query
// preparation, upstream lookup, and candidate ranking. The pipeline never
// returns an error — every failure and degenerate input resolves to a valid
// (possibly empty) suggestion list, because "no suggestions" is always a
// safe, renderable outcome for the consuming UI.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mediseek/medisearch-backend/internal/domain"
)

// maxQueryRunes bounds both the upstream payload size and the worst-case
// comparison cost during scoring.
const maxQueryRunes = 80

type rowFetcher interface {
	FetchRows(ctx context.Context, key string) []domain.CandidateRow
}

// Service runs the query-to-ranked-results pipeline. Each call is an
// independent unit of work; the service holds no per-request state.
type Service struct {
	log      *slog.Logger
	provider rowFetcher
}

// NewService creates a search Service backed by the given row provider.
func NewService(logger *slog.Logger, provider rowFetcher) *Service {
	return &Service{
		log:      logger.With("service", "search"),
		provider: provider,
	}
}

// Search returns up to 24 ranked disease suggestions for the query.
// An empty or all-whitespace query short-circuits to an empty list without
// an upstream call. Queries longer than 80 runes are silently truncated.
func (s *Service) Search(ctx context.Context, query string) []domain.DiseaseSearchItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.DiseaseSearchItem{}
	}

	query = domain.TruncateRunes(query, maxQueryRunes)
	normalized := domain.NormalizeText(query)

	rows := s.provider.FetchRows(ctx, query)

	items := rank(normalized, rows)

	s.log.DebugContext(ctx, "search completed",
		slog.String("query", query),
		slog.Int("rows", len(rows)),
		slog.Int("items", len(items)),
	)

	return items
}
