// internal/handlers/product.go
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

type ProductHandler struct {
	lifecycle *services.LifecycleService
}

func NewProductHandler(lifecycle *services.LifecycleService) *ProductHandler {
	return &ProductHandler{
		lifecycle: lifecycle,
	}
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.lifecycle.CreateProduct(c.Request.Context(), account, &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, result)
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	params := utils.GetPaginationParams(c)

	filter := repository.ProductFilter{
		Owner:  c.Query("owner"),
		Offset: params.Offset(),
		Limit:  params.Limit,
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseProductStatus(raw)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), err.Error())
			return
		}
		filter.Status = &status
	}

	products, total, err := h.lifecycle.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.lifecycle.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /products/:id/history
func (h *ProductHandler) GetProductHistory(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	history, err := h.lifecycle.ProductHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, history)
}

// POST /products/:id/transfer
func (h *ProductHandler) TransferProduct(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	var req services.TransferRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.lifecycle.TransferOwnership(c.Request.Context(), account, id, &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /products/:id/status
func (h *ProductHandler) UpdateProductStatus(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	var req services.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.lifecycle.UpdateStatus(c.Request.Context(), account, id, &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /products/:id/inspections
func (h *ProductHandler) InspectProduct(c *gin.Context) {
	account, ok := callerAccount(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	var req services.InspectionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.lifecycle.Inspect(c.Request.Context(), account, id, &req)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, result)
}

func productID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidID, "product"), nil)
		return 0, false
	}
	return id, true
}
