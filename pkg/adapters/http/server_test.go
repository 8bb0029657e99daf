package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/robobunny"
	api "github.com/aretw0/robobunny/pkg/adapters/http"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/observability"
	"github.com/aretw0/robobunny/pkg/registry"
	"github.com/aretw0/robobunny/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapDoc = `{"name": "open", "gridSize": 9, "bunnyPosition": {"x": 4, "y": 8, "direction": "up"}}`

const hopDoc = `
name: hop
blocks:
  - type: controls_repeat_ext
    times: 3
    do:
      - type: F_Jump
        value: 1
`

type fixture struct {
	srv     *httptest.Server
	streams *api.StreamManager
	metrics *observability.Metrics
}

func newFixture(t *testing.T, delay time.Duration) *fixture {
	t.Helper()
	streams := api.NewStreamManager(nil)
	metrics := observability.NewMetrics()
	mgr := session.NewManager(session.WithFactory(func(id string) *robobunny.Editor {
		return robobunny.New(
			robobunny.WithStepDelay(delay),
			robobunny.WithSettleDelay(0),
			robobunny.WithLifecycleHooks(observability.Combine(metrics.Hooks(), streams.Hooks(id))),
		)
	}))
	t.Cleanup(mgr.Close)

	srv := httptest.NewServer(api.NewHandler(mgr,
		api.WithStreams(streams),
		api.WithMetrics(metrics.Handler()),
	))
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, streams: streams, metrics: metrics}
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (f *fixture) createSession(t *testing.T) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/sessions", mapDoc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	view := decode[session.View](t, resp)
	require.NotEmpty(t, view.ID)
	assert.Equal(t, "/sessions/"+view.ID, resp.Header.Get("Location"))
	return view.ID
}

func TestServer_HealthAndInfo(t *testing.T) {
	f := newFixture(t, 0)

	resp := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	info := decode[map[string]string](t, f.do(t, http.MethodGet, "/info", ""))
	assert.Equal(t, robobunny.Version, info["version"])
}

func TestServer_Flatten(t *testing.T) {
	f := newFixture(t, 0)

	resp := f.do(t, http.MethodPost, "/flatten", hopDoc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[api.FlattenResponse](t, resp)
	assert.Len(t, got.Program, 3)
	assert.Equal(t, 3, got.Blocks, "repeat, jump and the TIMES number")
	assert.NotEmpty(t, got.Text)

	resp = f.do(t, http.MethodPost, "/flatten", "blocks:\n  - value: 1\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string]string](t, resp)["error"])
}

func TestServer_SessionStepping(t *testing.T) {
	f := newFixture(t, 0)
	id := f.createSession(t)

	resp := f.do(t, http.MethodPost, "/sessions/"+id+"/step", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "no program yet")

	resp = f.do(t, http.MethodPut, "/sessions/"+id+"/program", hopDoc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[session.View](t, resp)
	assert.Len(t, view.Program, 3)

	for i, next := range []int{1, 2, -1} {
		resp = f.do(t, http.MethodPost, "/sessions/"+id+"/step", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		res := decode[robobunny.StepResult](t, resp)
		assert.Equal(t, next, res.Next, "step %d", i)
	}

	state := decode[session.View](t, f.do(t, http.MethodGet, "/sessions/"+id+"/state", ""))
	require.Len(t, state.Snapshot.Agents, 1)
	assert.Equal(t, 5, state.Snapshot.Agents[0].Y)

	state = decode[session.View](t, f.do(t, http.MethodPost, "/sessions/"+id+"/reset", ""))
	assert.Equal(t, 8, state.Snapshot.Agents[0].Y)
	assert.Equal(t, 0, state.Cursor)
}

func TestServer_Run(t *testing.T) {
	f := newFixture(t, 0)
	id := f.createSession(t)
	f.do(t, http.MethodPut, "/sessions/"+id+"/program", hopDoc)

	resp := f.do(t, http.MethodPost, "/sessions/"+id+"/run", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		v := decode[session.View](t, f.do(t, http.MethodGet, "/sessions/"+id, ""))
		return !v.Execution.Running && len(v.Snapshot.Agents) == 1 && v.Snapshot.Agents[0].Y == 5
	}, time.Second, 10*time.Millisecond)
}

func TestServer_Events(t *testing.T) {
	f := newFixture(t, 0)
	id := f.createSession(t)
	f.do(t, http.MethodPut, "/sessions/"+id+"/program", hopDoc)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.srv.URL+"/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	f.do(t, http.MethodPost, "/sessions/"+id+"/step", "")

	var event map[string]any
	for event == nil {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if data, ok := strings.CutPrefix(line, "data: {"); ok {
			require.NoError(t, json.Unmarshal([]byte("{"+data), &event))
			if event["type"] != string(domain.EventCommand) {
				event = nil
			}
		}
	}
	assert.EqualValues(t, 0, event["index"])
}

func TestServer_Programs(t *testing.T) {
	f := newFixture(t, 0)

	resp := f.do(t, http.MethodGet, "/programs/hop", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPut, "/programs/hop", hopDoc)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	ws := decode[domain.Workspace](t, f.do(t, http.MethodGet, "/programs/hop", ""))
	assert.Equal(t, "hop", ws.Name)
	require.Len(t, ws.Blocks, 1)
	assert.Equal(t, domain.BlockRepeat, ws.Blocks[0].Type)

	list := decode[map[string][]string](t, f.do(t, http.MethodGet, "/programs", ""))
	assert.Equal(t, []string{"hop"}, list["programs"])

	id := f.createSession(t)
	resp = f.do(t, http.MethodPut, "/sessions/"+id+"/program?name=hop", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[session.View](t, resp).Program, 3)

	resp = f.do(t, http.MethodPut, "/sessions/"+id+"/program?name=missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/sessions/"+id+"/save?name=copy", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = f.do(t, http.MethodPost, "/sessions/"+id+"/save", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	list = decode[map[string][]string](t, f.do(t, http.MethodGet, "/programs", ""))
	assert.ElementsMatch(t, []string{"copy", "hop"}, list["programs"])

	resp = f.do(t, http.MethodDelete, "/programs/hop", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServer_UnknownSession(t *testing.T) {
	f := newFixture(t, 0)
	for _, path := range []string{"/sessions/nope", "/sessions/nope/state"} {
		resp := f.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	resp := f.do(t, http.MethodPost, "/sessions/nope/run", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = f.do(t, http.MethodDelete, "/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SessionList(t *testing.T) {
	f := newFixture(t, 0)
	id := f.createSession(t)

	list := decode[map[string][]string](t, f.do(t, http.MethodGet, "/sessions", ""))
	assert.Equal(t, []string{id}, list["sessions"])

	resp := f.do(t, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/sessions", `{"bunnyPosition": {"x": 1}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t, 0)
	id := f.createSession(t)
	f.do(t, http.MethodPut, "/sessions/"+id+"/program", hopDoc)
	f.do(t, http.MethodPost, "/sessions/"+id+"/step", "")

	resp := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `robobunny_commands_total{kind="F_Jump"} 1`)
}

func TestServer_Levels(t *testing.T) {
	levels := registry.NewRegistry()
	levels.Register("open", domain.MapDefinition{
		Name:       "open",
		GridSize:   9,
		BlockLimit: 6,
		Bunny:      domain.Placement{X: 4, Y: 8, Direction: domain.HeadingUp},
	})
	mgr := session.NewManager()
	t.Cleanup(mgr.Close)
	srv := httptest.NewServer(api.NewHandler(mgr, api.WithLevels(levels)))
	t.Cleanup(srv.Close)
	f := &fixture{srv: srv}

	list := decode[map[string][]string](t, f.do(t, http.MethodGet, "/maps", ""))
	assert.Equal(t, []string{"open"}, list["maps"])

	m := decode[api.MapView](t, f.do(t, http.MethodGet, "/maps/open", ""))
	assert.Equal(t, 9, m.GridSize)
	assert.Equal(t, 6, m.BlockLimit)

	resp := f.do(t, http.MethodGet, "/maps/closed", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/sessions?map=open", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	view := decode[session.View](t, resp)
	assert.Equal(t, 6, view.BlockLimit)

	resp = f.do(t, http.MethodPost, "/sessions?map=closed", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamManager_SubscribeBroadcast(t *testing.T) {
	sm := api.NewStreamManager(nil)
	ch, cancel := sm.Subscribe("s1")
	other, cancelOther := sm.Subscribe("s2")
	defer cancelOther()

	sm.Broadcast("s1", "hello")
	assert.Equal(t, "hello", <-ch)
	assert.Empty(t, other)

	cancel()
	_, open := <-ch
	assert.False(t, open)
	sm.Broadcast("s1", "dropped")
}
