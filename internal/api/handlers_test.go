package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacsim/internal/config"
	"tacsim/internal/mapgeo"
	"tacsim/internal/sim"
)

func testAppConfig() config.AppConfig {
	return config.AppConfig{
		Engine:   config.DefaultEngine(),
		Round:    config.DefaultRound(),
		Economy:  config.DefaultEconomy(),
		Combat:   config.DefaultCombat(),
		Movement: config.DefaultMovement(),
		Server:   config.DefaultServer(),
	}
}

// newTestServer spins up the pure router over a fresh store with rate
// limits high enough to never interfere.
func newTestServer(t *testing.T, cfg config.AppConfig) *httptest.Server {
	t.Helper()

	builtin := mapgeo.DefaultMap()
	store := NewMatchStore(cfg, map[string]*mapgeo.Map{builtin.Name: builtin}, nil)

	limiter := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 10000,
		Burst:             10000,
		CleanupInterval:   DefaultRateLimitConfig.CleanupInterval,
	})
	t.Cleanup(limiter.Stop)

	ts := httptest.NewServer(NewRouter(RouterConfig{
		Store:          store,
		RateLimiter:    limiter,
		DisableLogging: true,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, testAppConfig())
	resp := getJSON(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListMaps(t *testing.T) {
	ts := newTestServer(t, testAppConfig())

	var body struct {
		Maps []string `json:"maps"`
	}
	resp := getJSON(t, ts.URL+"/api/maps", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body.Maps, "range")
}

func TestGetMap(t *testing.T) {
	ts := newTestServer(t, testAppConfig())

	var body struct {
		Name           string   `json:"name"`
		BombSites      []string `json:"bombSites"`
		AttackerSpawns int      `json:"attackerSpawns"`
	}
	resp := getJSON(t, ts.URL+"/api/maps/range", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "range", body.Name)
	assert.ElementsMatch(t, []string{"A", "B"}, body.BombSites)
	assert.Equal(t, 5, body.AttackerSpawns)

	resp = getJSON(t, ts.URL+"/api/maps/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMatchLifecycle(t *testing.T) {
	ts := newTestServer(t, testAppConfig())

	var created sim.MatchSummary
	resp := postJSON(t, ts.URL+"/api/matches", CreateMatchRequest{
		Seed: 42, NameA: "alpha", NameB: "bravo",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "alpha", created.NameA)
	assert.False(t, created.Finished)

	// Snapshot and events 404 until a round has run.
	resp = getJSON(t, fmt.Sprintf("%s/api/matches/%s/snapshot", ts.URL, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var list struct {
		Matches []sim.MatchSummary `json:"matches"`
	}
	resp = getJSON(t, ts.URL+"/api/matches", &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Matches, 1)
	assert.Equal(t, created.ID, list.Matches[0].ID)

	var round sim.RoundSummary
	resp = postJSON(t, fmt.Sprintf("%s/api/matches/%s/rounds", ts.URL, created.ID), nil, &round)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, round.Round)
	assert.NotEmpty(t, round.Winner)
	assert.NotEmpty(t, round.EndCondition)

	var snap sim.RoundSnapshot
	resp = getJSON(t, fmt.Sprintf("%s/api/matches/%s/snapshot", ts.URL, created.ID), &snap)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, snap.Round)
	assert.Len(t, snap.Players, 10)

	var events struct {
		Events []struct {
			Type     string          `json:"type"`
			Sequence uint64          `json:"sequence"`
			Payload  json.RawMessage `json:"payload"`
		} `json:"events"`
	}
	resp = getJSON(t, fmt.Sprintf("%s/api/matches/%s/events", ts.URL, created.ID), &events)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, events.Events)
	assert.Equal(t, "phase", events.Events[0].Type)

	var summary sim.MatchSummary
	resp = getJSON(t, fmt.Sprintf("%s/api/matches/%s", ts.URL, created.ID), &summary)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, summary.ScoreA+summary.ScoreB)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/matches/%s", ts.URL, created.ID), nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	resp = getJSON(t, fmt.Sprintf("%s/api/matches/%s", ts.URL, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlayAllFinishesMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("full match simulation")
	}
	ts := newTestServer(t, testAppConfig())

	var created sim.MatchSummary
	resp := postJSON(t, ts.URL+"/api/matches", CreateMatchRequest{Seed: 7}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var final sim.MatchSummary
	resp = postJSON(t, fmt.Sprintf("%s/api/matches/%s/play", ts.URL, created.ID), nil, &final)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, final.Finished)
	assert.NotEmpty(t, final.WinnerSquad)

	// A finished match cannot play further rounds.
	resp = postJSON(t, fmt.Sprintf("%s/api/matches/%s/rounds", ts.URL, created.ID), nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateMatchErrors(t *testing.T) {
	ts := newTestServer(t, testAppConfig())

	resp, err := http.Post(ts.URL+"/api/matches", "application/json",
		bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/matches", CreateMatchRequest{Map: "nope"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMatchLimit(t *testing.T) {
	cfg := testAppConfig()
	cfg.Server.MaxMatches = 1
	ts := newTestServer(t, cfg)

	resp := postJSON(t, ts.URL+"/api/matches", CreateMatchRequest{}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/matches", CreateMatchRequest{}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPlayRoundUnknownMatch(t *testing.T) {
	ts := newTestServer(t, testAppConfig())
	resp := postJSON(t, ts.URL+"/api/matches/missing/rounds", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetWeapons(t *testing.T) {
	ts := newTestServer(t, testAppConfig())

	var body struct {
		Weapons []struct {
			Name string `json:"name"`
			Cost int    `json:"cost"`
		} `json:"weapons"`
	}
	resp := getJSON(t, ts.URL+"/api/weapons", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body.Weapons, len(sim.Weapons))
	assert.Equal(t, "Classic", body.Weapons[0].Name)
}

func TestRateLimitRejects(t *testing.T) {
	builtin := mapgeo.DefaultMap()
	store := NewMatchStore(testAppConfig(), map[string]*mapgeo.Map{builtin.Name: builtin}, nil)

	limiter := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
		CleanupInterval:   DefaultRateLimitConfig.CleanupInterval,
	})
	t.Cleanup(limiter.Stop)

	ts := httptest.NewServer(NewRouter(RouterConfig{
		Store:          store,
		RateLimiter:    limiter,
		DisableLogging: true,
	}))
	t.Cleanup(ts.Close)

	first, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
