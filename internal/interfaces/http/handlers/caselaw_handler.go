package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/infrastructure/feed"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// CaseLawHandler serves case law search and decision management.
type CaseLawHandler struct {
	svc    comparative.Service
	logger logging.Logger
}

// NewCaseLawHandler creates a CaseLawHandler.
func NewCaseLawHandler(svc comparative.Service, logger logging.Logger) *CaseLawHandler {
	return &CaseLawHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the handler on rg.
func (h *CaseLawHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/search", h.Search)
	rg.GET("/decisions/:id", h.GetDecision)
	rg.POST("/decisions", h.AddDecision)
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Results []caselaw.SearchResult `json:"results"`
	Total   int                    `json:"total"`
}

// Search handles POST /search.
func (h *CaseLawHandler) Search(c *gin.Context) {
	var q caselaw.Query
	if !bindJSON(c, h.logger, &q) {
		return
	}
	results, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	if results == nil {
		results = []caselaw.SearchResult{}
	}
	respondOK(c, http.StatusOK, SearchResponse{Results: results, Total: len(results)})
}

// GetDecision handles GET /decisions/:id.
func (h *CaseLawHandler) GetDecision(c *gin.Context) {
	d, err := h.svc.GetDecision(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, d)
}

// AddDecision handles POST /decisions.  The body uses the decision feed
// record format.
func (h *CaseLawHandler) AddDecision(c *gin.Context) {
	var rec feed.DecisionRecord
	if !bindJSON(c, h.logger, &rec) {
		return
	}
	params, err := rec.Params()
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	d, err := h.svc.AddDecision(c.Request.Context(), params)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.Header("Location", c.FullPath()+"/"+d.ID)
	respondOK(c, http.StatusCreated, d)
}

//Personal.AI order the ending
