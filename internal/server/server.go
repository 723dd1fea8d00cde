// Package server exposes the draft generation pipeline over HTTP: async
// submission, result lookup, SSE progress streaming, health, and metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/draftd/internal/design"
	"github.com/fyrsmithlabs/draftd/internal/logging"
	"github.com/fyrsmithlabs/draftd/internal/orchestrator"
	"github.com/fyrsmithlabs/draftd/internal/pipeline"
)

// Config holds HTTP server settings.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	HeartbeatEvery  time.Duration
}

// Server serves the draftd HTTP API.
type Server struct {
	echo     *echo.Echo
	logger   *logging.Logger
	service  *pipeline.Service
	registry *Registry
	natsConn *nats.Conn
	cfg      Config

	// runCtx is the parent of every detached generation run; Shutdown
	// cancels it so in-flight runs stop at the next phase boundary.
	runCtx   context.Context
	stopRuns context.CancelFunc
}

// NewServer assembles the HTTP surface. natsConn may be nil; the SSE
// endpoint then reports 503.
func NewServer(logger *logging.Logger, service *pipeline.Service, natsConn *nats.Conn, cfg Config) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("pipeline service cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.Port <= 0 {
		cfg.Port = 8610
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HeartbeatEvery <= 0 {
		cfg.HeartbeatEvery = 15 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:     e,
		logger:   logger,
		service:  service,
		registry: NewRegistry(),
		natsConn: natsConn,
		cfg:      cfg,
	}
	s.runCtx, s.stopRuns = context.WithCancel(context.Background())
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/drafts", s.handleCreateDraft)
	v1.GET("/drafts/:id", s.handleGetDraft)
	v1.GET("/drafts/:id/events", s.handleDraftEvents)
}

// DraftRequest is the body of POST /api/v1/drafts.
type DraftRequest struct {
	Brief   design.Brief     `json:"brief"`
	Options pipeline.Options `json:"options"`
}

// DraftAccepted is the 202 response of POST /api/v1/drafts.
type DraftAccepted struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url"`
	EventsURL string `json:"events_url"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	NATS   bool   `json:"nats"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		NATS:   s.natsConn != nil && s.natsConn.IsConnected(),
	})
}

// handleCreateDraft accepts a generation request and runs it
// asynchronously, returning 202 with the run ID immediately.
func (s *Server) handleCreateDraft(c echo.Context) error {
	var req DraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Brief.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "brief.text is required")
	}

	runID := uuid.NewString()
	if err := s.registry.Accept(runID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to register run")
	}

	// The run outlives the HTTP request. Echo recycles contexts through
	// a pool, so copy the request ID out before the handler returns; the
	// goroutine must not touch c. Client-supplied IDs that fail
	// validation are dropped rather than panicking WithRequestID.
	reqID := c.Response().Header().Get(echo.HeaderXRequestID)

	go func() {
		ctx := s.runCtx
		if logging.ValidateRequestID(reqID) == nil {
			ctx = logging.WithRequestID(ctx, reqID)
		}
		result, err := s.service.Generate(ctx, pipeline.Request{
			ID:      runID,
			Brief:   req.Brief,
			Options: req.Options,
		})
		if err != nil {
			s.logger.Error(ctx, "generation run failed to start",
				zap.String("run_id", runID),
				zap.Error(err),
			)
			result = orchestrator.ProcessResult{
				Success: false,
				Status:  orchestrator.StatusFailed,
				Issues: []orchestrator.Issue{{
					Severity: orchestrator.SeverityError,
					Message:  err.Error(),
				}},
			}
		}
		s.registry.Complete(runID, result)
	}()

	return c.JSON(http.StatusAccepted, DraftAccepted{
		RunID:     runID,
		Status:    string(orchestrator.StatusRunning),
		ResultURL: fmt.Sprintf("/api/v1/drafts/%s", runID),
		EventsURL: fmt.Sprintf("/api/v1/drafts/%s/events", runID),
	})
}

// handleGetDraft returns the terminal result, 409 while the run is still
// in flight, 404 for unknown runs.
func (s *Server) handleGetDraft(c echo.Context) error {
	run, ok := s.registry.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	if !run.Status.Terminal() {
		return c.JSON(http.StatusConflict, run)
	}
	return c.JSON(http.StatusOK, run)
}

// handleDraftEvents streams run progress as Server-Sent Events, bridging
// the run's NATS subjects. The stream closes on completion or client
// disconnect; heartbeats keep proxies from timing the connection out.
func (s *Server) handleDraftEvents(c echo.Context) error {
	runID := c.Param("id")

	run, ok := s.registry.Get(runID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	if s.natsConn == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event streaming unavailable")
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	// Terminal runs get a single completed event from the registry.
	if run.Status.Terminal() {
		return writeSSE(c, "completed", mustJSON(run))
	}

	subject := fmt.Sprintf("drafts.%s.*", runID)
	msgChan := make(chan *nats.Msg, 32)
	sub, err := s.natsConn.ChanSubscribe(subject, msgChan)
	if err != nil {
		return err
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	heartbeat := time.NewTicker(s.cfg.HeartbeatEvery)
	defer heartbeat.Stop()

	for {
		select {
		case msg := <-msgChan:
			parts := strings.Split(msg.Subject, ".")
			if len(parts) < 3 {
				continue
			}
			eventType := parts[2]
			if err := writeSSE(c, eventType, msg.Data); err != nil {
				return err
			}
			if eventType == "completed" {
				return nil
			}

		case <-heartbeat.C:
			// The run may have finished between the registry check and
			// the subscription; catch up from the registry.
			if run, ok := s.registry.Get(runID); ok && run.Status.Terminal() {
				return writeSSE(c, "completed", mustJSON(run))
			}
			fmt.Fprintf(c.Response(), ": heartbeat\n\n")
			c.Response().Flush()

		case <-c.Request().Context().Done():
			return nil
		}
	}
}

func writeSSE(c echo.Context, event string, data []byte) error {
	if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// Start begins serving; it blocks until the listener stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info(context.Background(), "http server starting", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown cancels in-flight generation runs and drains HTTP requests
// within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopRuns()
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
