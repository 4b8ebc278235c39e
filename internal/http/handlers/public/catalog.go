package public

import (
	"strconv"

	"github.com/carman72tmn/foodtech/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetBranches lists active branches.
func (h *Handler) GetBranches(c *gin.Context) {
	branches, err := h.BranchRepo.List(true)
	if err != nil {
		respondError(c, response.CodeInternal, "branch list failed", err)
		return
	}
	response.Success(c, branches)
}

// GetCategories lists active categories in display order.
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryRepo.ListActive()
	if err != nil {
		respondError(c, response.CodeInternal, "category list failed", err)
		return
	}
	response.Success(c, categories)
}

// GetProducts lists available products of one category.
func (h *Handler) GetProducts(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		respondError(c, response.CodeBadRequest, "category_id is required", nil)
		return
	}
	products, err := h.ProductRepo.ListByCategory(uint(categoryID), true)
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}
	response.Success(c, products)
}

// GetProduct fetches one product with its sizes.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	product, err := h.ProductRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	if product == nil {
		response.NotFound(c, "product not found")
		return
	}
	response.Success(c, product)
}
