package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/catalogs/product"
	"stocktrail/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /catalogs/products
func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	companyID := c.Query("companyId")
	if companyID == "" {
		h.Error(c, apperror.NewValidation("companyId is required"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 100)
	offset := h.ParseIntQuery(c, "offset", 0)

	products, err := h.service.List(ctx, h.Auth(c), companyID, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProducts(products))
}

// Get handles GET /catalogs/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	companyID := c.Query("companyId")
	if companyID == "" {
		h.Error(c, apperror.NewValidation("companyId is required"))
		return
	}

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	p, err := h.service.GetByID(ctx, h.Auth(c), companyID, productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}
