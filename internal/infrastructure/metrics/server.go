package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type statsResponse struct {
	Frames          uint64  `json:"frames"`
	FPS             float64 `json:"fps"`
	Delta           float64 `json:"delta"`
	SecondsPerFrame float64 `json:"seconds_per_frame"`
	Scene           string  `json:"scene"`
	Depth           int     `json:"depth"`
	Paused          bool    `json:"paused"`
}

// NewRouter serves /health, /stats (JSON snapshot) and /metrics.
func NewRouter(c *Collector, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/stats", func(ctx *gin.Context) {
		s := c.Snapshot()
		ctx.JSON(http.StatusOK, statsResponse{
			Frames:          s.Frames,
			FPS:             s.FPS,
			Delta:           s.Delta,
			SecondsPerFrame: s.SecondsPerFrame,
			Scene:           s.Scene,
			Depth:           s.Depth,
			Paused:          s.Paused,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry(), promhttp.HandlerOpts{})))
	return r
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		event := log.Debug()
		if c.Writer.Status() >= 400 {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	}
}

// Server runs the router on its own goroutine.
type Server struct {
	srv *http.Server
	log zerolog.Logger
}

// NewServer creates a server for the router on addr. It does not listen
// until Start.
func NewServer(addr string, c *Collector, log zerolog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(c, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start listens in the background. Listen errors are logged.
func (s *Server) Start() {
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("metrics server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// Shutdown stops the server, waiting for open requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
