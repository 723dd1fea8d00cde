package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/orchestrator"
	"github.com/fyrsmithlabs/draftd/internal/pipeline"
)

// startTestNATSServer starts an embedded NATS server for testing.
func startTestNATSServer(t *testing.T) *natsserver.Server {
	t.Helper()
	opts := &natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1, // Random port
		NoLog:  true,
		NoSigs: true,
	}

	srv, err := natsserver.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		srv.Shutdown()
		srv.WaitForShutdown()
	})

	return srv
}

func newTestServer(t *testing.T, nc *nats.Conn) *Server {
	t.Helper()
	svc, err := pipeline.NewService(nil, catalog.Builtin(), nil, orchestrator.Config{
		OverallBudget: time.Minute,
		TickInterval:  10 * time.Millisecond,
	}, nil, nc)
	require.NoError(t, err)

	s, err := NewServer(nil, svc, nc, Config{
		Host:           "127.0.0.1",
		Port:           0,
		HeartbeatEvery: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	return s
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.NATS)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCreateDraft_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts",
		strings.NewReader(`{"brief":{"text":"  "}}`))
	req.Header.Set(echoContentType, "application/json")
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

const echoContentType = "Content-Type"

func TestCreateDraft_AsyncLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts",
		strings.NewReader(`{"brief":{"text":"A minimal portfolio gallery for an artist to showcase work"}}`))
	req.Header.Set(echoContentType, "application/json")
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var accepted DraftAccepted
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.RunID)
	assert.Equal(t, "/api/v1/drafts/"+accepted.RunID, accepted.ResultURL)

	// Poll until the run reaches a terminal state.
	deadline := time.Now().Add(5 * time.Second)
	var run Run
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, accepted.ResultURL, nil)
		s.Handler().ServeHTTP(rec, req)

		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
			break
		}
		require.Equal(t, http.StatusConflict, rec.Code)
		time.Sleep(20 * time.Millisecond)
	}

	require.NotNil(t, run.Result, "run never finished")
	assert.True(t, run.Result.Success)
	assert.Equal(t, orchestrator.StatusCompleted, run.Status)
	assert.Len(t, run.Result.Results, 5)
}

// Draft creation detaches a goroutine per run while echo recycles its
// contexts through a pool; concurrent submissions must not share any
// state through the pooled context.
func TestCreateDraft_ConcurrentRequests(t *testing.T) {
	s := newTestServer(t, nil)
	httpSrv := httptest.NewServer(s.Handler())
	defer httpSrv.Close()

	const clients = 8
	const perClient = 10
	codes := make(chan int, clients*perClient)

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perClient; j++ {
				resp, err := http.Post(httpSrv.URL+"/api/v1/drafts", "application/json",
					strings.NewReader(`{"brief":{"text":"A minimal portfolio gallery for an artist"}}`))
				if err != nil {
					codes <- 0
					continue
				}
				resp.Body.Close()
				codes <- resp.StatusCode
			}
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		require.Equal(t, http.StatusAccepted, code)
	}
	assert.Equal(t, clients*perClient, s.registry.Len())
}

func TestShutdown_CancelsRunContext(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.Shutdown(context.Background()))

	select {
	case <-s.runCtx.Done():
	default:
		t.Fatal("run context still active after shutdown")
	}
}

func TestGetDraft_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/nope", nil)
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDraftEvents_NoNATS(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.registry.Accept("run-1"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/run-1/events", nil)
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDraftEvents_TerminalRunEmitsCompleted(t *testing.T) {
	srv := startTestNATSServer(t)
	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	s := newTestServer(t, nc)
	require.NoError(t, s.registry.Accept("run-done"))
	s.registry.Complete("run-done", orchestrator.ProcessResult{
		Success: true,
		Status:  orchestrator.StatusCompleted,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/run-done/events", nil)
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "event: completed")
	assert.Contains(t, body, `"status":"completed"`)
}

func TestDraftEvents_StreamsProgressFromNATS(t *testing.T) {
	srv := startTestNATSServer(t)
	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	s := newTestServer(t, nc)

	httpSrv := httptest.NewServer(s.Handler())
	defer httpSrv.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts",
		strings.NewReader(`{"brief":{"text":"A calm blog with long-form articles"}}`))
	req.Header.Set(echoContentType, "application/json")
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var accepted DraftAccepted
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))

	resp, err := http.Get(httpSrv.URL + accepted.EventsURL)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Either we catch the stream mid-run and read events until completed,
	// or the run already finished and the stream replays a single
	// completed event.
	sawCompleted := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: completed" {
			sawCompleted = true
			break
		}
	}
	assert.True(t, sawCompleted, "stream never delivered a completed event")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Accept("run-a"))
	require.Error(t, r.Accept("run-a"))

	run, ok := r.Get("run-a")
	require.True(t, ok)
	assert.Equal(t, orchestrator.StatusRunning, run.Status)
	assert.False(t, run.Status.Terminal())

	r.Complete("run-a", orchestrator.ProcessResult{Status: orchestrator.StatusFailed})
	run, _ = r.Get("run-a")
	assert.Equal(t, orchestrator.StatusFailed, run.Status)
	require.NotNil(t, run.Result)

	// Completing an unknown run is a no-op.
	r.Complete("ghost", orchestrator.ProcessResult{})
	assert.Equal(t, 1, r.Len())
}
