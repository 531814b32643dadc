// internal/handlers/participant.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/guanl20/Blocktrust/internal/i18n"
	"github.com/guanl20/Blocktrust/internal/models"
	"github.com/guanl20/Blocktrust/internal/services"
	"github.com/guanl20/Blocktrust/internal/utils"
)

type ParticipantHandler struct {
	roleService *services.RoleService
}

func NewParticipantHandler(roleService *services.RoleService) *ParticipantHandler {
	return &ParticipantHandler{
		roleService: roleService,
	}
}

// GET /participants
func (h *ParticipantHandler) GetParticipants(c *gin.Context) {
	participants, err := h.roleService.ListParticipants(c.Request.Context(), models.Role(c.Query("role")))
	if err != nil {
		respondError(c, err, "participant")
		return
	}

	utils.SuccessResponse(c, participants)
}

// GET /participants/:account
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	participant, err := h.roleService.GetParticipant(c.Request.Context(), c.Param("account"))
	if err != nil {
		respondError(c, err, "participant")
		return
	}

	utils.SuccessResponse(c, participant)
}

// POST /participants
func (h *ParticipantHandler) RegisterParticipant(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}

	var req services.RegisterParticipantRequest
	if !bindJSON(c, &req) {
		return
	}

	participant, err := h.roleService.RegisterParticipant(c.Request.Context(), account, &req)
	if err != nil {
		respondError(c, err, "participant")
		return
	}

	utils.CreatedResponse(c, participant)
}

// POST /roles/grant
func (h *ParticipantHandler) GrantRole(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}

	var req services.RoleChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	participant, changed, err := h.roleService.GrantRole(c.Request.Context(), account, &req)
	if err != nil {
		respondError(c, err, "participant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"participant": participant,
		"changed":     changed,
	})
}

// POST /roles/revoke
func (h *ParticipantHandler) RevokeRole(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}

	var req services.RoleChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	participant, changed, err := h.roleService.RevokeRole(c.Request.Context(), account, &req)
	if err != nil {
		respondError(c, err, "participant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"participant": participant,
		"changed":     changed,
	})
}

// GET /roles/check?role=&account=
func (h *ParticipantHandler) CheckRole(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	role := models.Role(c.Query("role"))
	account := c.Query("account")
	if account == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "account"), nil)
		return
	}

	has, err := h.roleService.HasRole(c.Request.Context(), role, account)
	if err != nil {
		respondError(c, err, "participant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account":  account,
		"role":     role,
		"has_role": has,
	})
}
