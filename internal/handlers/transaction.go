// internal/handlers/transaction.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guanl20/Blocktrust/internal/i18n"
	"github.com/guanl20/Blocktrust/internal/models"
	"github.com/guanl20/Blocktrust/internal/repository"
	"github.com/guanl20/Blocktrust/internal/services"
	"github.com/guanl20/Blocktrust/internal/utils"
)

type TransactionHandler struct {
	lifecycle *services.LifecycleService
}

func NewTransactionHandler(lifecycle *services.LifecycleService) *TransactionHandler {
	return &TransactionHandler{
		lifecycle: lifecycle,
	}
}

// GET /transactions
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	params := utils.GetPaginationParams(c)

	filter := repository.TransactionFilter{
		Type:   models.TransactionType(c.Query("type")),
		Status: models.TransactionStatus(c.Query("status")),
		Offset: params.Offset(),
		Limit:  params.Limit,
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidID, "product"), nil)
			return
		}
		filter.ProductID = &id
	}

	transactions, total, err := h.lifecycle.Transactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "transaction")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(transactions, total, params))
}
