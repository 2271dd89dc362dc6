// Package ui exposes reasoning sessions over HTTP: a JSON API for the
// session lifecycle and reasoning operations, plus a chi-based ops
// sidecar for health checks and profiling.
package ui

import (
	"github.com/gin-gonic/gin"

	"gocause/internal/session"
	"gocause/ports"
)

// Server is the JSON API over the session manager.
type Server struct {
	router    *gin.Engine
	manager   *session.Manager
	reports   ports.ReportSink
	worktrees ports.WorktreeEmitter
}

// NewServer creates the API server. The report sink and worktree emitter
// may be nil, which disables their endpoints with 503 responses.
func NewServer(manager *session.Manager, reports ports.ReportSink, worktrees ports.WorktreeEmitter) *Server {
	s := &Server{
		router:    gin.Default(),
		manager:   manager,
		reports:   reports,
		worktrees: worktrees,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api/sessions")
	{
		api.POST("", s.handleCreateSession)
		api.GET("", s.handleListSessions)
		api.POST("/restore", s.handleRestoreSessions)

		api.GET("/:id", s.handleSessionStatus)
		api.DELETE("/:id", s.handleDeleteSession)
		api.POST("/:id/persist", s.handlePersistSession)

		api.POST("/:id/network", s.handleSetupNetwork)
		api.POST("/:id/observations", s.handleObserve)
		api.POST("/:id/queries", s.handleQueryBackwards)
		api.POST("/:id/experiments/:experimentID/results", s.handleExperimentResult)
		api.POST("/:id/hypotheses/:hypothesisID/refine", s.handleRefine)

		api.GET("/:id/report", s.handleReport)
		api.POST("/:id/export", s.handleExport)
		api.GET("/:id/schemas/:schemaID/worktree", s.handleWorktreeFiles)
	}
}

// Router exposes the underlying gin engine for mounting on an http.Server.
func (s *Server) Router() *gin.Engine {
	return s.router
}
