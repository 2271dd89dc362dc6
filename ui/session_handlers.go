package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gocause/domain/core"
	"gocause/internal/orchestrator"
	"gocause/internal/session"
)

type createSessionRequest struct {
	Name string `json:"name" binding:"required"`
}

type sessionSummary struct {
	ID        core.SessionID `json:"id"`
	Name      string         `json:"name"`
	CreatedAt core.Timestamp `json:"created_at"`
	UpdatedAt core.Timestamp `json:"updated_at"`
}

func summarize(s *session.Session) sessionSummary {
	return sessionSummary{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	created := s.manager.Create(req.Name)
	c.JSON(http.StatusCreated, summarize(created))
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions := s.manager.List()
	out := make([]sessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, summarize(sess))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (s *Server) handleSessionStatus(c *gin.Context) {
	sess, err := s.manager.Get(core.SessionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	var status *orchestrator.Status
	_ = sess.Do(func(o *orchestrator.Orchestrator) error {
		status = o.GetStatus()
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"session": summarize(sess), "status": status})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.manager.Delete(c.Request.Context(), core.SessionID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePersistSession(c *gin.Context) {
	id := core.SessionID(c.Param("id"))
	if err := s.manager.Persist(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"persisted": id})
}

func (s *Server) handleRestoreSessions(c *gin.Context) {
	loaded, err := s.manager.LoadAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": loaded})
}
