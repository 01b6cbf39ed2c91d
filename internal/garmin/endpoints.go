// Package garmin provides a client for the Garmin Connect web API.
//
// There is no official client library for Garmin Connect; the API here is
// the same browser-facing surface the connect.garmin.com frontend uses,
// reached through a CAS-style SSO handshake. Endpoint paths and the SSO
// widget payload must match what the frontend sends or the service rejects
// the request.
package garmin

import "net/url"

const (
	// ConnectHost is the bare host of the Garmin Connect service, used for
	// the authority header on write requests.
	ConnectHost = "connect.garmin.com"

	// ConnectOrigin is the origin sent with write requests.
	ConnectOrigin = "https://connect.garmin.com"

	webHost     = "https://connect.garmin.com"
	redirectURL = "https://connect.garmin.com/post-auth/login"
	signinURL   = "http://connect.garmin.com/en-US/signin"
	ssoHost     = "https://sso.garmin.com/sso"
	gauthCSS    = "https://static.garmincdn.com/com.garmin.connect/ui/css/gauth-custom-v1.2-min.css"

	ssoLoginURL        = "https://sso.garmin.com/sso/login"
	postAuthURL        = "https://connect.garmin.com/modern/activities"
	activityListURL    = "https://connect.garmin.com/modern/proxy/activitylist-service/activities/search/activities"
	activityServiceURL = "https://connect.garmin.com/modern/proxy/activity-service/activity"
	activityPageURL    = "https://connect.garmin.com/modern/activity"
)

// Endpoints is the URL set for one Garmin Connect deployment. Production use
// goes through DefaultEndpoints; tests point the fields at a stub server.
type Endpoints struct {
	// Login is the SSO login URL including the widget query payload. Both the
	// initial page fetch and the credential POST go here.
	Login string

	// PostAuth is the landing URL where the SSO ticket is exchanged for a
	// fully established session.
	PostAuth string

	// ActivityList is the activity search endpoint.
	ActivityList string

	// ActivityService is the base URL for per-activity write requests; the
	// activity ID is appended as a path segment.
	ActivityService string

	// ActivityPage is the base URL of the human-facing activity page, used
	// for the referer header on write requests.
	ActivityPage string

	// Host and Origin feed the authority and origin headers on writes.
	Host   string
	Origin string
}

// DefaultEndpoints returns the production Garmin Connect endpoint set.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:           ssoLoginURL + "?" + ssoWidgetQuery().Encode(),
		PostAuth:        postAuthURL,
		ActivityList:    activityListURL,
		ActivityService: activityServiceURL,
		ActivityPage:    activityPageURL,
		Host:            ConnectHost,
		Origin:          ConnectOrigin,
	}
}

// ssoWidgetQuery builds the query payload describing the embedding gauth
// widget. The SSO frontend validates this structurally, so every field is
// reproduced exactly as the connect.garmin.com signin page sends it.
func ssoWidgetQuery() url.Values {
	return url.Values{
		"service":                         {redirectURL},
		"webhost":                         {webHost},
		"source":                          {signinURL},
		"redirectAfterAccountLoginUrl":    {redirectURL},
		"redirectAfterAccountCreationUrl": {redirectURL},
		"gauthHost":                       {ssoHost},
		"locale":                          {"en_US"},
		"id":                              {"gauth-widget"},
		"cssUrl":                          {gauthCSS},
		"clientId":                        {"GarminConnect"},
		"rememberMeShown":                 {"true"},
		"rememberMeChecked":               {"false"},
		"createAccountShown":              {"true"},
		"openCreateAccount":               {"false"},
		"usernameShown":                   {"false"},
		"displayNameShown":                {"false"},
		"consumeServiceTicket":            {"false"},
		"initialFocus":                    {"true"},
		"embedWidget":                     {"false"},
		"generateExtraServiceTicket":      {"false"},
	}
}
