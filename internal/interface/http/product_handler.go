package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/storelane/storelane-api/internal/application"
	repo "github.com/storelane/storelane-api/internal/domain/repository"
	"github.com/storelane/storelane-api/internal/storage"
	"github.com/storelane/storelane-api/pkg/response"
	"github.com/storelane/storelane-api/pkg/validation"
)

// imageField is the multipart field carrying the product image.
const imageField = "image"

type ProductHandler struct {
	Svc    *application.ProductService
	Images storage.ImageStore
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, images storage.ImageStore, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Images: images, Logger: logger}
}

type createProductRequest struct {
	Name        string   `form:"name" binding:"required"`
	Description string   `form:"description" binding:"required"`
	Price       *float64 `form:"price" binding:"required,gte=0"`
	Category    string   `form:"category" binding:"required"`
	Stock       *int     `form:"stock" binding:"omitempty,gte=0"`
}

type updateProductRequest struct {
	Name        *string  `form:"name" json:"name"`
	Description *string  `form:"description" json:"description"`
	Price       *float64 `form:"price" json:"price" binding:"omitempty,gte=0"`
	Category    *string  `form:"category" json:"category"`
	Stock       *int     `form:"stock" json:"stock" binding:"omitempty,gte=0"`
}

// parseID rejects identifiers that cannot exist before touching the
// database.
func parseID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// List handles GET /products with page, limit, category, sortBy and
// sortOrder query parameters. Non-numeric or out-of-range pagination
// values are normalized rather than rejected.
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.Svc.List(c.Request.Context(), application.ListParams{
		Page:      page,
		Limit:     limit,
		Category:  c.Query("category"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		h.Logger.WithError(err).Error("product listing failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list products", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "products", nil)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		h.Logger.WithError(err).Error("product fetch failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch product", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "product", nil)
}

// Create handles POST /products. The body is multipart form data and the
// image file is mandatory.
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	fh, err := c.FormFile(imageField)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "product image is required", nil)
		return
	}
	imageURL, err := h.Images.Save(c.Request.Context(), fh)
	if err != nil {
		h.uploadError(c, err)
		return
	}

	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}
	p, err := h.Svc.Create(c.Request.Context(), application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Stock:       stock,
		ImageURL:    imageURL,
	})
	if err != nil {
		h.Logger.WithError(err).Error("product create failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to create product", nil)
		return
	}
	response.Success(c, http.StatusCreated, p, "product created", nil)
}

// Update handles PUT /products/:id as a merge-update: fields omitted from
// the request keep their stored values, and a missing image file means
// "keep the existing image".
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
		return
	}

	var req updateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	patch := repo.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}
	if fh, err := c.FormFile(imageField); err == nil {
		imageURL, err := h.Images.Save(c.Request.Context(), fh)
		if err != nil {
			h.uploadError(c, err)
			return
		}
		patch.ImageURL = &imageURL
	}

	p, err := h.Svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		h.Logger.WithError(err).Error("product update failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update product", nil)
		return
	}
	response.Success(c, http.StatusOK, p, "product updated", nil)
}

// Delete handles DELETE /products/:id and returns the removed snapshot.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.Error[any](c, http.StatusNotFound, "product not found", nil)
		return
	}
	p, err := h.Svc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			response.Error[any](c, http.StatusNotFound, "product not found", nil)
			return
		}
		h.Logger.WithError(err).Error("product delete failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to delete product", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "product deleted", "product": p}, "product deleted", nil)
}

// Search handles GET /products/search backed by Elasticsearch.
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.Query("limit"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("product search failed")
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hits": hits}, "search results", nil)
}

func (h *ProductHandler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrBadType):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error("image store failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to store image", nil)
	}
}
