// Package service runs the client search pipeline: rate limit, normalize,
// build the predicate, fetch, rank, paginate, highlight and format.
package service

import (
	"context"
	"errors"
	"math"
	"time"
	"unicode/utf8"

	"clientregistry/internal/search/domain"
	"clientregistry/internal/search/highlight"
	"clientregistry/internal/search/predicate"
	"clientregistry/internal/search/ranking"
	"clientregistry/internal/search/ratelimit"
	"clientregistry/internal/search/repository"
	"clientregistry/internal/search/transport"
	"clientregistry/platform/apperr"
	"clientregistry/platform/logger"
	"clientregistry/platform/metrics"
)

const (
	// DefaultFetchTimeout bounds the store call when none is configured.
	DefaultFetchTimeout = 5 * time.Second

	msgShortQuery  = "Type at least 2 characters to search"
	msgRateLimited = "Too many search requests, please retry later"
	msgStoreFailed = "Search is temporarily unavailable"
)

// Service executes client searches.
type Service struct {
	store        repository.Store
	limiter      *ratelimit.Limiter
	log          *logger.Logger
	fetchTimeout time.Duration
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for timings and relative dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithFetchTimeout bounds every store fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// New creates the search service.
func New(store repository.Store, limiter *ratelimit.Limiter, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		limiter:      limiter,
		log:          log,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs one request for an already authenticated caller.
func (s *Service) Search(ctx context.Context, callerKey string, raw domain.RawParams) (*transport.SearchResponse, error) {
	start := s.now()
	log := s.log.WithContext(ctx)

	if err := s.checkRateLimit(ctx, log, callerKey); err != nil {
		metrics.ObserveSearch(string(domain.ParseMode(raw.Mode)), metrics.OutcomeRateLimited, 0, 0)
		return nil, err
	}

	req := domain.Normalize(raw, callerKey)
	resp := &transport.SearchResponse{
		Success:    true,
		Results:    []transport.SearchResultItem{},
		Query:      req.Query,
		Filters:    filtersEcho(req.Filters),
		SearchType: string(req.Mode),
		Limit:      req.Limit,
		Offset:     req.Offset,
	}

	if req.TooShort() {
		resp.Message = msgShortQuery
		resp.ExecutionTimeMs = elapsedMs(start, s.now())
		metrics.ObserveSearch(string(req.Mode), metrics.OutcomeShortQuery, 0, 0)
		return resp, nil
	}

	records, err := s.fetch(ctx, predicate.Build(req))
	if err != nil {
		log.StoreError("search.FetchCandidates", err)
		metrics.ObserveSearch(string(req.Mode), metrics.OutcomeStoreError, 0, 0)
		return nil, apperr.Wrap(apperr.KindInternal, msgStoreFailed, err).WithOp("search.Search")
	}

	// Score the whole filtered set before cutting the page.
	page := ranking.Page(ranking.Rank(records, req.Query), req.Offset, req.Limit)

	now := s.now()
	resp.Results = make([]transport.SearchResultItem, len(page))
	for i := range page {
		r := &page[i]
		r.HighlightedName = highlight.Highlight(r.Record.DisplayName, req.Query)
		r.Subtitle = Subtitle(r.Record)
		r.Icon = Icon(r.Record.BusinessType)
		r.LastContactRelative = RelativeTime(r.Record.LastContactAt, now)
		resp.Results[i] = toItem(*r)
	}
	resp.Total = len(resp.Results)

	elapsed := now.Sub(start)
	resp.ExecutionTimeMs = elapsedMs(start, now)
	log.SearchExecuted(string(req.Mode), utf8.RuneCountInString(req.Query), len(records), resp.Total, resp.ExecutionTimeMs)
	metrics.ObserveSearch(string(req.Mode), metrics.OutcomeOK, elapsed, len(records))

	return resp, nil
}

// checkRateLimit counts the request against the caller's window. A failing
// limiter store lets the request through.
func (s *Service) checkRateLimit(ctx context.Context, log *logger.Logger, callerKey string) error {
	if s.limiter == nil {
		return nil
	}

	decision, err := s.limiter.Allow(ctx, callerKey)
	if err != nil {
		if errors.Is(err, ratelimit.ErrEmptyKey) {
			return apperr.Unauthorized("authentication required").WithOp("search.Search")
		}
		log.Warn("rate limiter unavailable, allowing request", "error", err)
		return nil
	}
	if decision.Allowed {
		return nil
	}

	log.RateLimitExceeded(callerKey, "search")
	metrics.RateLimitRejectionsTotal.WithLabelValues("caller").Inc()
	return apperr.TooManyRequests(msgRateLimited, decision.RetryAfter()).WithOp("search.Search")
}

func (s *Service) fetch(ctx context.Context, expr predicate.Expression) ([]domain.CandidateRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	records, err := s.store.FetchCandidates(fetchCtx, expr)
	if err != nil {
		return nil, err
	}
	if err := fetchCtx.Err(); err != nil {
		// never rank a batch the store may have cut short
		return nil, err
	}
	return records, nil
}

func elapsedMs(start, end time.Time) float64 {
	ms := float64(end.Sub(start)) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
