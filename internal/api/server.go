package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a record universe over HTTP.
type Server struct {
	source   Source
	metrics  *Metrics
	registry *prometheus.Registry
	clock    func() time.Time
}

func NewServer(source Source) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		source:   source,
		metrics:  NewMetrics(registry),
		registry: registry,
		clock:    time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/images", s.handleImages)
	e.GET("/v1/records", s.handleRecords)

	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	e.GET("/metrics", func(c *echo.Context) error {
		metricsHandler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleImages(c *echo.Context) error {
	start := s.clock()
	defer func() {
		s.metrics.requestDuration.WithLabelValues("images").Observe(s.clock().Sub(start).Seconds())
	}()
	s.metrics.scansTotal.WithLabelValues("images").Inc()

	images, err := s.source.Images()
	if err != nil {
		return writeError(c, http.StatusInternalServerError, err.Error())
	}
	return writeJSON(c, http.StatusOK, images)
}

func (s *Server) handleRecords(c *echo.Context) error {
	start := s.clock()
	defer func() {
		s.metrics.requestDuration.WithLabelValues("records").Observe(s.clock().Sub(start).Seconds())
	}()
	s.metrics.scansTotal.WithLabelValues("records").Inc()

	var kind *uint32
	if q := c.QueryParam("kind"); q != "" {
		v, err := strconv.ParseUint(q, 10, 32)
		if err != nil {
			return writeError(c, http.StatusBadRequest, "kind must be an unsigned 32-bit integer")
		}
		k := uint32(v)
		kind = &k
	}

	records, err := s.source.Records(kind)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, err.Error())
	}
	s.metrics.recordsReturned.Add(float64(len(records)))
	return writeJSON(c, http.StatusOK, records)
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.JSONBlob(status, b)
}

func writeError(c *echo.Context, status int, msg string) error {
	return writeJSON(c, status, map[string]any{"error": msg})
}
