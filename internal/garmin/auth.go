package garmin

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
)

// ticketPattern matches the single-use service ticket embedded in the login
// response body. On success the SSO frontend answers with an HTML/JS page
// containing a redirect URL of the shape `...?ticket=<ticket>";`.
var ticketPattern = regexp.MustCompile(`(?s)\?ticket=([-\w]+)";`)

// Authenticator performs the CAS-style SSO handshake against Garmin's login
// frontend. All steps share the Transport's cookie jar; once Login returns
// nil the jar holds a session accepted by the activity endpoints.
type Authenticator struct {
	transport *Transport
	endpoints Endpoints
	logger    arbor.ILogger
}

// NewAuthenticator creates an Authenticator using the given transport.
func NewAuthenticator(transport *Transport, endpoints Endpoints, logger arbor.ILogger) *Authenticator {
	return &Authenticator{
		transport: transport,
		endpoints: endpoints,
		logger:    logger,
	}
}

// Login establishes an authenticated session:
//
//  1. GET the login page so the SSO frontend seeds its session cookies.
//  2. POST the credentials to the same URL.
//  3. Extract the service ticket from the response body.
//  4. Exchange the ticket at the post-auth endpoint, which finalizes the
//     cookies recognized by the activity API.
//
// No other caller may issue requests through the shared transport until
// Login has returned.
func (a *Authenticator) Login(ctx context.Context, username, password string) error {
	if _, err := a.transport.Request(ctx, a.endpoints.Login, nil, nil); err != nil {
		return fmt.Errorf("fetching login page: %w", err)
	}

	form := url.Values{
		"username":            {username},
		"password":            {password},
		"embed":               {"true"},
		"lt":                  {"e1s1"},
		"_eventId":            {"submit"},
		"displayNameRequired": {"false"},
	}

	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	}

	body, err := a.transport.Request(ctx, a.endpoints.Login, []byte(form.Encode()), headers)
	if err != nil {
		return fmt.Errorf("submitting credentials: %w", err)
	}

	ticket, err := extractTicket(string(body))
	if err != nil {
		return err
	}

	a.logger.Debug().Msg("Service ticket extracted from login response")

	exchangeURL := a.endpoints.PostAuth + "?ticket=" + url.QueryEscape(ticket)
	if _, err := a.transport.Request(ctx, exchangeURL, nil, nil); err != nil {
		return fmt.Errorf("exchanging service ticket: %w", err)
	}

	a.logger.Info().Msg("Authenticated with Garmin Connect")
	return nil
}

// extractTicket pulls the service ticket out of the login response body.
// A missing ticket is the only authentication failure signal the SSO
// frontend gives: bad credentials come back as HTTP 200 with an error page.
func extractTicket(body string) (string, error) {
	match := ticketPattern.FindStringSubmatch(body)
	if match == nil {
		return "", &AuthenticationError{Reason: loginFailureReason(body)}
	}
	return match[1], nil
}

// loginFailureReason digs the SSO widget's status message out of the error
// page so the user sees more than a generic failure. The page structure is
// undocumented; when nothing recognizable is found the reason falls back to
// the almost-always-correct guess of bad credentials.
func loginFailureReason(body string) string {
	const fallback = "no service ticket in login response (check username and password)"

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fallback
	}

	message := strings.TrimSpace(doc.Find("#status, .status, .error-message").First().Text())
	if message == "" {
		return fallback
	}
	return fmt.Sprintf("%s: %q", fallback, message)
}
