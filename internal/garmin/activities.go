package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ternarybob/arbor"
)

const (
	// SearchLimit is the cap requested per search. Garmin itself enforces a
	// ceiling of 1000 per request and may silently truncate above that; the
	// larger value states this tool's intent of a single unbounded pass.
	SearchLimit = 9999
)

// ActivityService lists recorded activities. Requires a transport whose
// session has been established by the Authenticator.
type ActivityService struct {
	transport *Transport
	endpoints Endpoints
	logger    arbor.ILogger
}

// NewActivityService creates an ActivityService using the given transport.
func NewActivityService(transport *Transport, endpoints Endpoints, logger arbor.ILogger) *ActivityService {
	return &ActivityService{
		transport: transport,
		endpoints: endpoints,
		logger:    logger,
	}
}

// List performs one bounded search and returns the matching activity
// summaries. An empty result is an empty slice, not an error. There is no
// pagination: a single request is expected to cover the bounded set.
func (s *ActivityService) List(ctx context.Context, dateRange DateRange, limit int) ([]ActivitySummary, error) {
	params := url.Values{}
	params.Set("start", "0")
	params.Set("limit", strconv.Itoa(limit))
	if dateRange.Start != "" {
		params.Set("startDate", dateRange.Start)
	}
	if dateRange.End != "" {
		params.Set("endDate", dateRange.End)
	}

	searchURL := s.endpoints.ActivityList + "?" + params.Encode()

	s.logger.Debug().
		Str("startDate", dateRange.Start).
		Str("endDate", dateRange.End).
		Int("limit", limit).
		Msg("Searching for activities")

	data, err := s.transport.Request(ctx, searchURL, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("searching activities: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var activities []ActivitySummary
	if err := json.Unmarshal(data, &activities); err != nil {
		return nil, &DecodeError{URL: searchURL, Err: err}
	}

	return activities, nil
}
