package aggregator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"pokedex/pkg/metrics"
	"pokedex/pkg/upstream"
	"pokedex/pkg/utils"
)

const apiPrefix = "/api/v2"

// fakeAPI serves the snapshot in testdata/pokeapi.json and lets tests break
// individual paths.
type fakeAPI struct {
	srv    *httptest.Server
	bodies map[string]json.RawMessage

	mu    sync.Mutex
	hits  map[string]int
	fail  map[string]int
	flaky map[string]int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	bodies, err := utils.Load[map[string]json.RawMessage]("testdata/pokeapi.json")
	require.NoError(t, err)

	f := &fakeAPI{
		bodies: bodies,
		hits:   make(map[string]int),
		fail:   make(map[string]int),
		flaky:  make(map[string]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) base() string { return f.srv.URL + apiPrefix }

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, apiPrefix)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	f.mu.Lock()
	f.hits[key]++
	status, failing := f.fail[key]
	flaky := f.flaky[key] > 0
	if flaky {
		f.flaky[key]--
	}
	f.mu.Unlock()

	switch {
	case failing:
		http.Error(w, http.StatusText(status), status)
		return
	case flaky:
		http.Error(w, "try again", http.StatusServiceUnavailable)
		return
	}

	body, ok := f.bodies[key]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(strings.ReplaceAll(string(body), "{{BASE}}", f.base())))
}

// failWith makes every request for path answer status.
func (f *fakeAPI) failWith(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[path] = status
}

// failTimes makes the next n requests for path answer 503.
func (f *fakeAPI) failTimes(path string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flaky[path] = n
}

func (f *fakeAPI) hitsFor(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) aggregator(t *testing.T, cfg Config) *Aggregator {
	t.Helper()
	m := metrics.New()
	client, err := upstream.New(upstream.Options{BaseURL: f.base(), Metrics: m})
	require.NoError(t, err)
	if cfg.Retry.Attempts == 0 {
		cfg.Retry.Attempts = 3
	}
	return New(client, cfg, m)
}
