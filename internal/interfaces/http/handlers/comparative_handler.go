package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/domain/choiceoflaw"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// ComparativeHandler serves rule comparison and choice-of-law analysis.
type ComparativeHandler struct {
	svc    comparative.Service
	logger logging.Logger
}

// NewComparativeHandler creates a ComparativeHandler.
func NewComparativeHandler(svc comparative.Service, logger logging.Logger) *ComparativeHandler {
	return &ComparativeHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the handler on rg.
func (h *ComparativeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/topics", h.Topics)
	rg.POST("/compare", h.Compare)
	rg.GET("/compare/report", h.CompareReport)
	rg.POST("/choice-of-law", h.AnalyzeChoiceOfLaw)
	rg.GET("/approaches", h.ListApproaches)
	rg.GET("/approaches/:forum", h.SelectApproach)
}

// CompareRequest is the body of POST /compare.
type CompareRequest struct {
	Topic         string   `json:"topic" binding:"required"`
	Jurisdictions []string `json:"jurisdictions" binding:"required"`
}

// FactPattern is the fact part of a choice-of-law request.
type FactPattern struct {
	Category    string                      `json:"category,omitempty"`
	Topic       string                      `json:"topic,omitempty"`
	Factors     []comparative.FactorInput   `json:"factors"`
	Interests   []comparative.InterestInput `json:"interests,omitempty"`
	PolicyNotes []string                    `json:"policy_notes,omitempty"`
}

// ChoiceOfLawRequest is the body of POST /choice-of-law.
type ChoiceOfLawRequest struct {
	FactPattern FactPattern        `json:"fact_pattern"`
	Forum       string             `json:"forum" binding:"required"`
	Approach    string             `json:"approach,omitempty"`
	Qualities   map[string]float64 `json:"qualities,omitempty"`
}

func (r ChoiceOfLawRequest) input() *comparative.ChoiceOfLawInput {
	return &comparative.ChoiceOfLawInput{
		Category:    r.FactPattern.Category,
		Topic:       r.FactPattern.Topic,
		Factors:     r.FactPattern.Factors,
		Interests:   r.FactPattern.Interests,
		PolicyNotes: r.FactPattern.PolicyNotes,
		Forum:       r.Forum,
		Approach:    r.Approach,
		Qualities:   r.Qualities,
	}
}

// Topics handles GET /topics.
func (h *ComparativeHandler) Topics(c *gin.Context) {
	respondOK(c, http.StatusOK, h.svc.Topics())
}

// Compare handles POST /compare.
func (h *ComparativeHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	res, err := h.svc.Compare(c.Request.Context(), req.Topic, req.Jurisdictions)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// CompareReport handles GET /compare/report?topic=&j=A&j=B.  A single j
// value may also carry a comma-separated list.
func (h *ComparativeHandler) CompareReport(c *gin.Context) {
	var codes []string
	for _, v := range c.QueryArray("j") {
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}
	}
	report, err := h.svc.CompareReport(c.Request.Context(), c.Query("topic"), codes)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	c.String(http.StatusOK, report)
}

// AnalyzeChoiceOfLaw handles POST /choice-of-law.
func (h *ComparativeHandler) AnalyzeChoiceOfLaw(c *gin.Context) {
	var req ChoiceOfLawRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	res, err := h.svc.AnalyzeChoiceOfLaw(c.Request.Context(), req.input())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// ListApproaches handles GET /approaches.
func (h *ComparativeHandler) ListApproaches(c *gin.Context) {
	respondOK(c, http.StatusOK, choiceoflaw.AllApproaches())
}

// SelectApproach handles GET /approaches/:forum.
func (h *ComparativeHandler) SelectApproach(c *gin.Context) {
	sel, err := h.svc.SelectApproach(c.Request.Context(), c.Param("forum"))
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, sel)
}

//Personal.AI order the ending
