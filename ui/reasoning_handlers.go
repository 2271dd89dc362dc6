package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "gocause/domain/causal"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
	"gocause/internal/analysis"
	"gocause/internal/orchestrator"
)

type networkRequest struct {
	Variables []orchestrator.VariableSpec `json:"variables"`
	Links     []orchestrator.LinkSpec     `json:"links"`
}

func (s *Server) handleSetupNetwork(c *gin.Context) {
	sess, err := s.manager.Get(core.SessionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	var req networkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid network specification"})
		return
	}

	_ = sess.Do(func(o *orchestrator.Orchestrator) error {
		o.SetupCausalNetwork(req.Variables, req.Links)
		return nil
	})
	c.JSON(http.StatusOK, gin.H{
		"variables": len(req.Variables),
		"links":     len(req.Links),
	})
}

type observationRequest struct {
	Observation string            `json:"observation"`
	Variables   map[string]string `json:"variables"`
}

func (s *Server) handleObserve(c *gin.Context) {
	sess, err := s.manager.Get(core.SessionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	var req observationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid observation payload"})
		return
	}

	var step *orchestrator.ReasoningStep
	err = sess.Do(func(o *orchestrator.Orchestrator) error {
		var reasonErr error
		step, reasonErr = o.ReasonFromObservation(req.Observation, req.Variables)
		return reasonErr
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, step)
}

type queryRequest struct {
	EffectVariable string `json:"effect_variable" binding:"required"`
	EffectValue    string `json:"effect_value" binding:"required"`
}

func (s *Server) handleQueryBackwards(c *gin.Context) {
	sess, err := s.manager.Get(core.SessionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "effect_variable and effect_value are required"})
		return
	}

	var result *orchestrator.BackwardsResult
	_ = sess.Do(func(o *orchestrator.Orchestrator) error {
		result = o.QueryBackwards(req.EffectVariable, req.EffectValue)
		return nil
	})
	c.JSON(http.StatusOK, result)
}

type resultRequest struct {
	Observation       string                 `json:"observation" binding:"required"`
	MatchesPrediction bool                   `json:"matches_prediction"`
	Strength          float64                `json:"strength"`
	Data              map[string]interface{} `json:"data"`
}

func (s *Server) handleExperimentResult(c *gin.Context) {
	sess, err := s.manager.Get(core.SessionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	var req resultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "observation is required"})
		return
	}

	experimentID := core.ExperimentID(c.Param("experimentID"))
	var result *orchestrator.EvaluationResult
	err = sess.Do(func(o *orchestrator.Orchestrator) error {
		var evalErr error
		result, evalErr = o.EvaluateExperimentResult(experimentID, req.Observation, req.MatchesPrediction, req.Strength, req.Data)
		return evalErr
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type refineRequest struct {
	EvidenceID core.EvidenceID `json:"evidence_id" binding:"required"`
	Refinement string          `json:"refinement" binding:"required"`
}

func (s *Server) handleRefine(c *gin.Context) {
	sess, err := s.manager.Get(core.SessionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "evidence_id and refinement are required"})
		return
	}

	hypothesisID := core.HypothesisID(c.Param("hypothesisID"))
	var result *orchestrator.RefinementResult
	err = sess.Do(func(o *orchestrator.Orchestrator) error {
		var refineErr error
		result, refineErr = o.RefineHypothesis(hypothesisID, req.EvidenceID, req.Refinement)
		return refineErr
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) handleReport(c *gin.Context) {
	id := core.SessionID(c.Param("id"))
	report, err := s.manager.Report(id)
	if err != nil {
		respondError(c, err)
		return
	}

	// The concentration stat in the brief reflects the latest backwards
	// query, if the session has run one.
	var latestRanking []domain.RankedCause
	if sess, getErr := s.manager.Get(id); getErr == nil {
		_ = sess.Do(func(o *orchestrator.Orchestrator) error {
			if queries := o.Graph().Queries(); len(queries) > 0 {
				latestRanking = queries[len(queries)-1].RankedCauses
			}
			return nil
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"report": report,
		"brief":  analysis.BuildBrief(report, latestRanking),
	})
}

func (s *Server) handleExport(c *gin.Context) {
	if s.reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report export is not configured"})
		return
	}

	report, err := s.manager.Report(core.SessionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	path, err := s.reports.Export(c.Request.Context(), report)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (s *Server) handleWorktreeFiles(c *gin.Context) {
	if s.worktrees == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "worktree emission is not configured"})
		return
	}

	sess, err := s.manager.Get(core.SessionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	schemaID := core.SchemaID(c.Param("schemaID"))
	var schema *hypothesis.WorktreeSchema
	err = sess.Do(func(o *orchestrator.Orchestrator) error {
		var schemaErr error
		schema, schemaErr = o.Generator().Schema(schemaID)
		return schemaErr
	})
	if err != nil {
		respondError(c, err)
		return
	}

	files, err := s.worktrees.Emit(c.Request.Context(), schema)
	if err != nil {
		respondError(c, err)
		return
	}

	rendered := make(map[string]string, len(files))
	for path, content := range files {
		rendered[path] = string(content)
	}
	c.JSON(http.StatusOK, gin.H{
		"branch": schema.BranchName,
		"files":  rendered,
	})
}
