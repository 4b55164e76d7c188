package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/scriptbench/scriptbench/auth"
	"github.com/scriptbench/scriptbench/config"
	"github.com/scriptbench/scriptbench/harness"
	"github.com/scriptbench/scriptbench/report"
	"github.com/scriptbench/scriptbench/security"
	"github.com/scriptbench/scriptbench/storage"
)

// RunnerFunc executes an uploaded script and measures it. Swapped out in
// handler tests.
type RunnerFunc func(ctx context.Context, path, filetype string) (*harness.Result, error)

// AnalyzeFunc produces the security report for an uploaded script.
type AnalyzeFunc func(path, filetype string) security.Report

// Server wires the HTTP surface over the analysis engine, the execution
// harness, storage and report rendering.
type Server struct {
	cfg      config.Config
	store    *storage.Store
	auth     *auth.Service
	sessions *auth.Sessions
	reports  *report.Writer
	log      *zap.SugaredLogger

	run     RunnerFunc
	analyze AnalyzeFunc
}

// New builds a server with the production runner and analyzer. Tests
// override run/analyze through the option funcs.
func New(cfg config.Config, store *storage.Store, log *zap.SugaredLogger, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		auth:     auth.NewService(store, log),
		sessions: auth.NewSessions(auth.DefaultSessionTTL),
		reports:  report.NewWriter(cfg.ReportsDir),
		log:      log,
		analyze:  security.GenerateReport,
	}
	s.run = func(ctx context.Context, path, filetype string) (*harness.Result, error) {
		if filetype == "py" {
			return harness.RunPython(ctx, cfg.PythonBin, path, cfg.ExecTimeout)
		}
		return harness.RunSQL(ctx, path)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option customizes server wiring.
type Option func(*Server)

// WithRunner replaces the execution harness.
func WithRunner(run RunnerFunc) Option {
	return func(s *Server) { s.run = run }
}

// WithAnalyzer replaces the security analyzer.
func WithAnalyzer(analyze AnalyzeFunc) Option {
	return func(s *Server) { s.analyze = analyze }
}

// Router assembles the HTTP routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), countRequests())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/signup", s.handleSignup)
		v1.POST("/login", s.handleLogin)

		authed := v1.Group("", s.requireSession())
		{
			authed.POST("/logout", s.handleLogout)
			authed.POST("/upload", s.handleUpload)
			authed.POST("/rerun/:filename", s.handleRerun)
			authed.GET("/report/:filename", s.handleReport)
			authed.GET("/history", s.handleHistory)
		}
	}
	return router
}

// ListenAndServe blocks serving HTTP on the configured address.
func (s *Server) ListenAndServe() error {
	s.log.Infow("listening", "addr", s.cfg.ListenAddr)
	if err := s.Router().Run(s.cfg.ListenAddr); err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.Infow("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}
