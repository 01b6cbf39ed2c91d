package garmin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ternarybob/arbor"
)

// PrivacyService updates the visibility attribute of individual activities.
// Requires a transport whose session has been established by the
// Authenticator.
type PrivacyService struct {
	transport *Transport
	endpoints Endpoints
	logger    arbor.ILogger
}

// NewPrivacyService creates a PrivacyService using the given transport.
func NewPrivacyService(transport *Transport, endpoints Endpoints, logger arbor.ILogger) *PrivacyService {
	return &PrivacyService{
		transport: transport,
		endpoints: endpoints,
		logger:    logger,
	}
}

type accessControlRule struct {
	TypeKey PrivacyLevel `json:"typeKey"`
}

type activityUpdate struct {
	AccessControlRuleDTO accessControlRule `json:"accessControlRuleDTO"`
	ActivityID           int64             `json:"activityId"`
}

// SetPrivacy sets one activity's visibility. The activity resource only
// accepts POST-tunneled PUTs, so the request goes out as a POST with a
// method-override header plus the browser marker headers the endpoint
// expects; the undocumented `nk: NT` header is required verbatim. A 204
// response counts as success, and there is no response body to parse.
func (s *PrivacyService) SetPrivacy(ctx context.Context, activity ActivitySummary, level PrivacyLevel) error {
	body, err := json.Marshal(activityUpdate{
		AccessControlRuleDTO: accessControlRule{TypeKey: level},
		ActivityID:           activity.ActivityID,
	})
	if err != nil {
		return fmt.Errorf("encoding update for activity %d: %w", activity.ActivityID, err)
	}

	updateURL := fmt.Sprintf("%s/%d", s.endpoints.ActivityService, activity.ActivityID)
	pageURL := fmt.Sprintf("%s/%d", s.endpoints.ActivityPage, activity.ActivityID)

	s.logger.Debug().
		Int64("activityId", activity.ActivityID).
		Str("privacy", string(level)).
		Msg("Updating activity visibility")

	headers := map[string]string{
		"referer":                pageURL,
		"authority":              s.endpoints.Host,
		"origin":                 s.endpoints.Origin,
		"Content-Type":           "application/json",
		"X-HTTP-Method-Override": "PUT",
		"X-Requested-With":       "XMLHttpRequest",
		"nk":                     "NT",
	}

	if _, err := s.transport.Request(ctx, updateURL, body, headers); err != nil {
		return fmt.Errorf("updating activity %d: %w", activity.ActivityID, err)
	}

	return nil
}
