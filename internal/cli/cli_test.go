package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCalendarServer is an in-memory rendition of the calendar service's
// JSON API, just enough for the gateway client.
type fakeCalendarServer struct {
	mu     sync.Mutex
	seq    int
	events map[string]map[string]any
}

func newFakeCalendarServer() (*fakeCalendarServer, *httptest.Server) {
	f := &fakeCalendarServer{events: make(map[string]map[string]any)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /calendars/{cal}/events", f.create)
	mux.HandleFunc("GET /calendars/{cal}/events/{id}", f.get)
	mux.HandleFunc("PATCH /calendars/{cal}/events/{id}", f.update)
	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", f.delete)

	return f, httptest.NewServer(mux)
}

func (f *fakeCalendarServer) create(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.seq++
	id := fmt.Sprintf("srv-%d", f.seq)
	body["id"] = id
	f.events[id] = body
	f.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeCalendarServer) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	body, ok := f.events[r.PathValue("id")]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeCalendarServer) update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.events[r.PathValue("id")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	body["start"] = patch["start"]
	body["end"] = patch["end"]
	w.WriteHeader(http.StatusOK)
}

func (f *fakeCalendarServer) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[r.PathValue("id")]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(f.events, r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeCalendarServer) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
}

// harness wires a temp config, database, and fake service for command runs.
type harness struct {
	configPath string
	server     *fakeCalendarServer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	fake, srv := newFakeCalendarServer()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "readlater.yaml")
	cfg := fmt.Sprintf(`database: %s
timezone: UTC
calendar:
  base_url: %s
  calendar_id: reading
  token: test-token
`, filepath.Join(dir, "events.db"), srv.URL)
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o600))

	return &harness{configPath: configPath, server: fake}
}

// run executes one CLI invocation and returns its combined output.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", h.configPath}, args...))

	err := cmd.Execute()
	return buf.String(), err
}

// futureAt formats a start time comfortably in the future, in UTC.
func futureAt(d time.Duration) string {
	return time.Now().UTC().Add(d).Format("2006-01-02 15:04")
}

func TestCLI_SaveListDone(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "save", "https://example.com/a", "--title", "long read", "--at", futureAt(2*time.Hour))
	require.NoError(t, err, out)
	assert.Contains(t, out, "srv-1")

	out, err = h.run(t, "list", "scheduled")
	require.NoError(t, err)
	assert.Contains(t, out, "srv-1")
	assert.Contains(t, out, "long read")

	out, err = h.run(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "today")

	out, err = h.run(t, "done", "srv-1")
	require.NoError(t, err, out)

	out, err = h.run(t, "list", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "srv-1")

	out, err = h.run(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "no events scheduled.")

	out, err = h.run(t, "undo", "srv-1")
	require.NoError(t, err, out)

	out, err = h.run(t, "list", "scheduled")
	require.NoError(t, err)
	assert.Contains(t, out, "srv-1")
}

func TestCLI_ArchiveRestoreDelete(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "save", "https://example.com/a", "--at", futureAt(2*time.Hour))
	require.NoError(t, err, out)

	out, err = h.run(t, "archive", "srv-1")
	require.NoError(t, err, out)

	out, err = h.run(t, "list", "archived")
	require.NoError(t, err)
	assert.Contains(t, out, "srv-1")

	// Restore allocates a fresh remote id.
	out, err = h.run(t, "restore", "srv-1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "srv-2")

	out, err = h.run(t, "list", "scheduled")
	require.NoError(t, err)
	assert.Contains(t, out, "srv-2")
	assert.NotContains(t, out, "srv-1")

	// Scheduled rows may not be deleted directly.
	_, err = h.run(t, "delete", "srv-2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, err = h.run(t, "archive", "srv-2")
	require.NoError(t, err, out)
	out, err = h.run(t, "delete", "srv-2")
	require.NoError(t, err, out)

	out, err = h.run(t, "list", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "no events.")
}

func TestCLI_RestoreRejectsNonArchived(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "save", "https://example.com/a", "--at", futureAt(2*time.Hour))
	require.NoError(t, err, out)

	_, err = h.run(t, "restore", "srv-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCLI_RescheduleAndAgain(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "save", "https://example.com/a", "--title", "read", "--at", futureAt(2*time.Hour))
	require.NoError(t, err, out)

	out, err = h.run(t, "reschedule", "srv-1", "--at", futureAt(50*time.Hour), "--duration", "45")
	require.NoError(t, err, out)

	out, err = h.run(t, "done", "srv-1")
	require.NoError(t, err, out)

	out, err = h.run(t, "again", "srv-1", "--at", futureAt(80*time.Hour))
	require.NoError(t, err, out)
	assert.Contains(t, out, "srv-2")

	// Original completed row stays; new scheduled row exists.
	out, err = h.run(t, "list", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "srv-1")

	out, err = h.run(t, "list", "scheduled")
	require.NoError(t, err)
	assert.Contains(t, out, "srv-2")
}

func TestCLI_SyncMarksExternallyDeleted(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "save", "https://example.com/a", "--at", futureAt(2*time.Hour))
	require.NoError(t, err, out)
	out, err = h.run(t, "save", "https://example.com/b", "--at", futureAt(4*time.Hour))
	require.NoError(t, err, out)

	// srv-1 vanishes behind our back.
	h.server.drop("srv-1")

	out, err = h.run(t, "sync")
	require.NoError(t, err, out)

	out, err = h.run(t, "list", "all", "--format", "json")
	require.NoError(t, err)

	var got result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	statuses := map[string]string{}
	for _, e := range got.Events {
		statuses[e.ID] = e.Status
	}
	assert.Equal(t, "deleted_from_calendar", statuses["srv-1"])
	assert.Equal(t, "scheduled", statuses["srv-2"])
}

func TestCLI_Export(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "save", "https://example.com/a", "--title", "read", "--at", futureAt(2*time.Hour))
	require.NoError(t, err, out)

	out, err = h.run(t, "export")
	require.NoError(t, err, out)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "srv-1")
	assert.Contains(t, out, "SUMMARY:read")
}

func TestCLI_ArchiveFailureLeavesRowScheduled(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "save", "https://example.com/a", "--at", futureAt(2*time.Hour))
	require.NoError(t, err, out)

	// The service no longer knows the event; archive's remote delete fails
	// and the local row must stay scheduled.
	h.server.drop("srv-1")

	_, err = h.run(t, "archive", "srv-1")
	require.Error(t, err)

	out, err = h.run(t, "list", "scheduled")
	require.NoError(t, err)
	assert.Contains(t, out, "srv-1")
}

func TestCLI_MissingTokenIsCommandError(t *testing.T) {
	h := newHarness(t)

	// Rewrite the config without any credential.
	cfg := fmt.Sprintf(`database: %s
calendar:
  base_url: http://127.0.0.1:1
  calendar_id: reading
  token_env: READLATER_CLI_TEST_TOKEN
`, filepath.Join(filepath.Dir(h.configPath), "events.db"))
	require.NoError(t, os.WriteFile(h.configPath, []byte(cfg), 0o600))
	t.Setenv("READLATER_CLI_TEST_TOKEN", "")

	_, err := h.run(t, "sync")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
