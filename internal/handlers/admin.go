// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/guanl20/Blocktrust/internal/i18n"
	"github.com/guanl20/Blocktrust/internal/services"
	"github.com/guanl20/Blocktrust/internal/utils"
)

type AdminHandler struct {
	pause      *services.PauseSwitch
	projection *services.ProjectionService
	stats      *services.StatsService
}

func NewAdminHandler(pause *services.PauseSwitch, projection *services.ProjectionService, stats *services.StatsService) *AdminHandler {
	return &AdminHandler{
		pause:      pause,
		projection: projection,
		stats:      stats,
	}
}

// POST /admin/pause
func (h *AdminHandler) Pause(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}

	if err := h.pause.Pause(c.Request.Context(), account); err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyLedgerPaused),
		"paused":  h.pause.Paused(),
	})
}

// POST /admin/unpause
func (h *AdminHandler) Unpause(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}

	if err := h.pause.Unpause(c.Request.Context(), account); err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyLedgerUnpaused),
		"paused":  h.pause.Paused(),
	})
}

// GET /admin/ledger/verify
func (h *AdminHandler) VerifyLedger(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}

	report, err := h.projection.Verify(c.Request.Context(), account)
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, report)
}

// GET /system/status
func (h *AdminHandler) GetSystemStatus(c *gin.Context) {
	utils.SuccessResponse(c, h.stats.Status())
}

// GET /stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, stats)
}
