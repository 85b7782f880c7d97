package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
)

// AdminHandler serves snapshot administration.
type AdminHandler struct {
	svc    comparative.Service
	logger logging.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc comparative.Service, logger logging.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the handler on rg.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/reload", h.Reload)
	rg.GET("/snapshot", h.Snapshot)
}

// Reload handles POST /admin/reload.  A failed reload keeps serving the
// previous snapshot and reports the error.
func (h *AdminHandler) Reload(c *gin.Context) {
	info, err := h.svc.Reload(c.Request.Context(), comparative.TriggerManual)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, info)
}

// Snapshot handles GET /snapshot.
func (h *AdminHandler) Snapshot(c *gin.Context) {
	respondOK(c, http.StatusOK, h.svc.Snapshot().Info())
}

//Personal.AI order the ending
