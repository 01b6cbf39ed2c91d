package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/gcprivacy/internal/garmin"
)

// stubConnect emulates the parts of Garmin Connect one run touches: the SSO
// handshake, the activity search, and the per-activity update endpoint.
type stubConnect struct {
	server *httptest.Server

	searchResponse string
	searchCalls    int

	// updateIDs records the activity IDs of update requests in arrival order.
	updateIDs []int64
	// updateBodies records the raw JSON body per update request.
	updateBodies []string
	// failUpdateAt fails the nth update request (1-based) with HTTP 500.
	failUpdateAt int

	// badCredentials makes the credential POST answer with an error page
	// instead of a ticket, the way Garmin signals a failed login.
	badCredentials bool

	loginOK bool
}

func newStubConnect(t *testing.T) *stubConnect {
	t.Helper()
	stub := &stubConnect{searchResponse: "[]"}

	mux := http.NewServeMux()
	mux.HandleFunc("/sso/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if stub.badCredentials {
				w.Write([]byte(`<div id="status">Invalid username or password.</div>`))
				return
			}
			w.Write([]byte(`var response_url = "/modern/activities?ticket=ST-stub-ticket";`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "CASTGC", Value: "seed"})
	})
	mux.HandleFunc("/modern/activities", func(w http.ResponseWriter, r *http.Request) {
		stub.loginOK = r.URL.Query().Get("ticket") != ""
	})
	mux.HandleFunc("/activitylist-service/activities/search/activities", func(w http.ResponseWriter, r *http.Request) {
		stub.searchCalls++
		w.Write([]byte(stub.searchResponse))
	})
	mux.HandleFunc("/activity-service/activity/", func(w http.ResponseWriter, r *http.Request) {
		idPart := strings.TrimPrefix(r.URL.Path, "/activity-service/activity/")
		id, err := strconv.ParseInt(idPart, 10, 64)
		assert.NoError(t, err)

		var body struct {
			AccessControlRuleDTO struct {
				TypeKey string `json:"typeKey"`
			} `json:"accessControlRuleDTO"`
			ActivityID int64 `json:"activityId"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		stub.updateIDs = append(stub.updateIDs, id)
		raw, _ := json.Marshal(body)
		stub.updateBodies = append(stub.updateBodies, string(raw))

		if stub.failUpdateAt > 0 && len(stub.updateIDs) == stub.failUpdateAt {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *stubConnect) endpoints() garmin.Endpoints {
	return garmin.Endpoints{
		Login:           s.server.URL + "/sso/login",
		PostAuth:        s.server.URL + "/modern/activities",
		ActivityList:    s.server.URL + "/activitylist-service/activities/search/activities",
		ActivityService: s.server.URL + "/activity-service/activity",
		ActivityPage:    s.server.URL + "/modern/activity",
		Host:            "connect.garmin.com",
		Origin:          "https://connect.garmin.com",
	}
}

func testOptions() Options {
	return Options{
		Username: "testuser",
		Password: "testpass",
		Privacy:  "private",
		Limit:    9999,
	}
}

// newTestRunner wires a Runner against the stub with pacing disabled.
func newTestRunner(t *testing.T, opts Options, stub *stubConnect) *Runner {
	t.Helper()
	runner, err := New(opts, stub.endpoints(), 1000, arbor.NewLogger())
	require.NoError(t, err)
	return runner
}

func TestRun_UpdatesAllActivitiesInOrder(t *testing.T) {
	stub := newStubConnect(t)
	stub.searchResponse = `[
		{"activityId":111,"startTimeLocal":"2018-09-30 08:00:00","activityName":"Morning Run"},
		{"activityId":222,"startTimeLocal":"2018-10-01 09:00:00","activityName":null}
	]`

	runner := newTestRunner(t, testOptions(), stub)
	require.NoError(t, runner.Run(context.Background()))

	assert.True(t, stub.loginOK)
	assert.Equal(t, 1, stub.searchCalls)
	assert.Equal(t, []int64{111, 222}, stub.updateIDs)
	require.Len(t, stub.updateBodies, 2)
	assert.JSONEq(t, `{"accessControlRuleDTO":{"typeKey":"private"},"activityId":111}`, stub.updateBodies[0])
	assert.JSONEq(t, `{"accessControlRuleDTO":{"typeKey":"private"},"activityId":222}`, stub.updateBodies[1])
}

func TestRun_NumericAliasResolvesBeforeSending(t *testing.T) {
	stub := newStubConnect(t)
	stub.searchResponse = `[{"activityId":111,"startTimeLocal":"2018-09-30 08:00:00","activityName":"Morning Run"}]`

	opts := testOptions()
	opts.Privacy = "2"
	runner := newTestRunner(t, opts, stub)
	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, stub.updateBodies, 1)
	assert.JSONEq(t, `{"accessControlRuleDTO":{"typeKey":"subscribers"},"activityId":111}`, stub.updateBodies[0])
}

func TestRun_NoActivitiesMeansNoUpdates(t *testing.T) {
	stub := newStubConnect(t)

	runner := newTestRunner(t, testOptions(), stub)
	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, 1, stub.searchCalls)
	assert.Empty(t, stub.updateIDs, "no update requests may be issued for an empty search result")
}

func TestRun_AbortsOnFirstUpdateFailure(t *testing.T) {
	stub := newStubConnect(t)
	stub.searchResponse = `[
		{"activityId":111,"startTimeLocal":"2018-09-30 08:00:00","activityName":"One"},
		{"activityId":222,"startTimeLocal":"2018-10-01 09:00:00","activityName":"Two"},
		{"activityId":333,"startTimeLocal":"2018-10-02 10:00:00","activityName":"Three"}
	]`
	stub.failUpdateAt = 2

	runner := newTestRunner(t, testOptions(), stub)
	err := runner.Run(context.Background())
	require.Error(t, err)

	var transportErr *garmin.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, []int64{111, 222}, stub.updateIDs,
		"the failed activity was attempted, its successors were not")
}

func TestRun_BadCredentials(t *testing.T) {
	stub := newStubConnect(t)
	stub.badCredentials = true

	runner := newTestRunner(t, testOptions(), stub)
	err := runner.Run(context.Background())

	var authErr *garmin.AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, 0, stub.searchCalls, "listing must not happen without an authenticated session")
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	stub := newStubConnect(t)

	opts := testOptions()
	opts.StartDate = "2018-13-40"
	_, err := New(opts, stub.endpoints(), 1000, arbor.NewLogger())
	require.Error(t, err)
}

func TestRun_IdempotentReissue(t *testing.T) {
	// Re-running against identical stub state reissues the identical first
	// request: the run has no memory between invocations.
	firstBodies := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		stub := newStubConnect(t)
		stub.searchResponse = fmt.Sprintf(`[{"activityId":%d,"startTimeLocal":"2018-09-30 08:00:00","activityName":"Run"}]`, 111)

		runner := newTestRunner(t, testOptions(), stub)
		require.NoError(t, runner.Run(context.Background()))
		require.Len(t, stub.updateBodies, 1)
		firstBodies = append(firstBodies, stub.updateBodies[0])
	}
	assert.Equal(t, firstBodies[0], firstBodies[1])
}
