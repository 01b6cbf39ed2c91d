// Package app wires the Garmin client components together and drives one
// privacy-update run: authenticate once, list once, update each activity in
// listing order.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/gcprivacy/internal/garmin"
)

// Runner sequences Authenticator -> ActivityService -> PrivacyService.
type Runner struct {
	opts       Options
	auth       *garmin.Authenticator
	activities *garmin.ActivityService
	privacy    *garmin.PrivacyService
	logger     arbor.ILogger
}

// New validates the options and builds a Runner with a fresh transport.
// The transport's cookie jar is the only session state; it is shared by the
// authenticator and both services so the SSO session established at login
// carries into every later call.
func New(opts Options, endpoints garmin.Endpoints, rateLimit int, logger arbor.ILogger) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	transportOpts := []garmin.TransportOption{garmin.WithLogger(logger)}
	if rateLimit > 0 {
		transportOpts = append(transportOpts, garmin.WithRateLimit(rateLimit))
	}

	transport, err := garmin.NewTransport(transportOpts...)
	if err != nil {
		return nil, err
	}

	return &Runner{
		opts:       opts,
		auth:       garmin.NewAuthenticator(transport, endpoints, logger),
		activities: garmin.NewActivityService(transport, endpoints, logger),
		privacy:    garmin.NewPrivacyService(transport, endpoints, logger),
		logger:     logger,
	}, nil
}

// Run executes one pass over the bounded activity set. The first error
// aborts the run: there is no retry and no skip-and-continue, so a failure
// on activity N halts processing of N+1 onward.
func (r *Runner) Run(ctx context.Context) error {
	level, err := garmin.ParsePrivacyLevel(r.opts.Privacy)
	if err != nil {
		return err
	}

	r.logger.Info().Str("username", r.opts.Username).Msg("Logging in to Garmin Connect")
	if err := r.auth.Login(ctx, r.opts.Username, r.opts.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	dateRange := garmin.DateRange{Start: r.opts.StartDate, End: r.opts.EndDate}
	activities, err := r.activities.List(ctx, dateRange, r.opts.Limit)
	if err != nil {
		return err
	}

	if len(activities) == 0 {
		r.logger.Info().Msg("No activities found for the given date range")
		return nil
	}

	r.logger.Info().
		Int("count", len(activities)).
		Str("privacy", string(level)).
		Str("description", level.Description()).
		Msg("Found activities")

	for _, activity := range activities {
		event := r.logger.Info().
			Int64("activityId", activity.ActivityID).
			Str("start", activity.StartTimeLocal).
			Str("privacy", string(level))
		if activity.ActivityName != "" {
			event = event.Str("name", activity.ActivityName)
		}
		event.Msg("Setting activity visibility")

		if err := r.privacy.SetPrivacy(ctx, activity, level); err != nil {
			return err
		}
	}

	r.logger.Info().Int("updated", len(activities)).Msg("Done")
	return nil
}
