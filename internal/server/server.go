package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rvanwijk/caseview/internal/casefile"
	"github.com/rvanwijk/caseview/internal/claims"
	"github.com/rvanwijk/caseview/internal/model"
	"github.com/rvanwijk/caseview/internal/render"
	"github.com/rvanwijk/caseview/internal/worker"
)

// Server exposes one loaded case for interactive review: render the current
// state, submit corrections, approve or reject them. Claim state lives in the
// store; every render reflects the latest snapshot.
type Server struct {
	config  *model.Config
	store   *claims.Store
	limiter *worker.Limiter // Paces approve/reject per producing service
	cf      *casefile.CaseFile
}

// NewServer creates a server for the given case. The case's seeded claims
// become the store's initial state.
func NewServer(cfg *model.Config, cf *casefile.CaseFile) (*Server, error) {
	store := claims.NewStore()
	if err := store.Seed(cf.Claims); err != nil {
		return nil, err
	}

	return &Server{
		config:  cfg,
		store:   store,
		limiter: worker.NewLimiter(cfg.Server.ActionRate, cfg.Server.ActionBurst),
		cf:      cf,
	}, nil
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(requestID())

	router.GET("/v1/health", s.handleHealth)
	router.POST("/v1/render", s.handleRender)
	router.POST("/v1/claims", s.handleSubmitClaim)
	router.GET("/v1/claims/:id", s.handleGetClaim)
	router.POST("/v1/claims/:id/approve", s.handleApprove)
	router.POST("/v1/claims/:id/reject", s.handleReject)

	return router
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	slog.Info("Starting caseview server", "addr", s.config.Server.Addr, "case_id", s.cf.CaseID)
	return s.Router().Run(s.config.Server.Addr)
}

// requestID tags every request so log lines from one request correlate.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "caseview", "case_id": s.cf.CaseID})
}

type renderRequest struct {
	CanApprove *bool `json:"can_approve"` // Overrides the case file's flag when set
}

func (s *Server) handleRender(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	canApprove := s.cf.CanApprove
	if req.CanApprove != nil {
		canApprove = *req.CanApprove
	}

	renderer := render.NewRenderer(s.cf.CaseID, s.cf.Claimant)
	tree := renderer.Render(s.cf.Tree, s.cf.Service, s.cf.Law, s.store.Snapshot(), canApprove)

	c.JSON(http.StatusOK, gin.H{
		"case_id":     s.cf.CaseID,
		"can_approve": canApprove,
		"tree":        tree,
	})
}

type submitClaimRequest struct {
	Service  string `json:"service" binding:"required"`
	Law      string `json:"law" binding:"required"`
	Key      string `json:"key" binding:"required"`
	NewValue any    `json:"new_value"`
	Claimant string `json:"claimant"`
}

func (s *Server) handleSubmitClaim(c *gin.Context) {
	var req submitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claimant := req.Claimant
	if claimant == "" {
		claimant = s.cf.Claimant
	}

	claim, err := s.store.Submit(req.Service, req.Law, req.Key, req.NewValue, claimant)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Claim submitted", "claim_id", claim.ID, "service", claim.ServiceKey, "key", claim.FieldKey)
	c.JSON(http.StatusCreated, claim)
}

func (s *Server) handleGetClaim(c *gin.Context) {
	claim, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (s *Server) handleApprove(c *gin.Context) {
	var req model.ApproveRequest
	s.handleAction(c, &req.ClaimID, &req, s.store.Approve)
}

func (s *Server) handleReject(c *gin.Context) {
	var req model.RejectRequest
	s.handleAction(c, &req.ClaimID, &req, s.store.Reject)
}

// handleAction runs an approve/reject transition under the per-service rate
// limit. The limit is keyed on the service that produced the field, since that
// is whose backend ultimately absorbs the action. The request body is the
// action descriptor; when present its claim_id must match the path.
func (s *Server) handleAction(c *gin.Context, bodyID *string, body any, transition func(string) (model.Claim, error)) {
	id := c.Param("id")

	if err := c.ShouldBindJSON(body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if *bodyID != "" && *bodyID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "claim_id in body does not match path"})
		return
	}

	existing, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
		return
	}

	if !s.limiter.Allow(existing.ServiceKey) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded for service " + existing.ServiceKey})
		return
	}

	claim, err := transition(id)
	if err != nil {
		slog.Warn("Claim transition rejected", "claim_id", id, "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Claim transitioned", "claim_id", claim.ID, "status", claim.Status)
	c.JSON(http.StatusOK, claim)
}
