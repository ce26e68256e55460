package kcd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mediseek/medisearch-backend/internal/config"
	"github.com/mediseek/medisearch-backend/internal/domain"
)

// Fixed protocol parameters of the classification lookup call. The window
// 1..150 bounds how many candidate rows one request may return.
const (
	callType       = "SICK_SEARCH"
	category       = "KCD"
	categoryDegree = "3"
	firstIndex     = "1"
	lastIndex      = "150"
	condition      = "LIKE"
)

// Provider fetches candidate rows from the external disease classification
// lookup service.
type Provider struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider from upstream configuration.
func NewProvider(cfg config.UpstreamConfig, logger *slog.Logger) *Provider {
	return &Provider{
		endpoint:   cfg.Endpoint,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		log:        logger.With("adapter", "kcd"),
	}
}

// FetchRows issues a single lookup request for the given search key and
// returns the raw candidate rows. It never returns an error: network
// failures, timeouts, non-2xx statuses, and malformed bodies all collapse to
// zero rows. The endpoint degrades to "no suggestions" rather than failing
// the caller, and no retry is attempted so a flaky upstream is never
// amplified.
func (p *Provider) FetchRows(ctx context.Context, key string) []domain.CandidateRow {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	rows, err := p.fetch(ctx, key)
	if err != nil {
		p.log.WarnContext(ctx, "kcd lookup failed, returning zero rows",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}

	p.log.DebugContext(ctx, "kcd lookup response",
		slog.String("key", key),
		slog.Int("rows", len(rows)),
	)

	return rows
}

func (p *Provider) fetch(ctx context.Context, key string) ([]domain.CandidateRow, error) {
	form := url.Values{
		"callType":       {callType},
		"category":       {category},
		"categoryDegree": {categoryDegree},
		"firstIndex":     {firstIndex},
		"lastIndex":      {lastIndex},
		"condition":      {condition},
		"searchText":     {key},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("kcd: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kcd: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("kcd: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("kcd: read body: %w", err)
	}

	// The top level must be a JSON array; anything else (an error object,
	// an HTML error page) counts as zero rows.
	var entries []apiRow
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("kcd: decode json: %w", err)
	}

	return mapAPIRows(entries), nil
}
