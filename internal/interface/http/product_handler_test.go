package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane-api/internal/application"
	"github.com/storelane/storelane-api/internal/domain/entity"
	repo "github.com/storelane/storelane-api/internal/domain/repository"
	handlers "github.com/storelane/storelane-api/internal/interface/http"
	"github.com/storelane/storelane-api/internal/router/modules"
	"github.com/storelane/storelane-api/internal/storage"
	"github.com/storelane/storelane-api/pkg/helpers"
	"github.com/storelane/storelane-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// memProductRepo is an in-memory ProductRepository with real filter, sort
// and pagination semantics.
type memProductRepo struct {
	seq  int
	rows []entity.Product
}

func (m *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	m.seq++
	p.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq)
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.rows = append(m.rows, *p)
	return nil
}

func (m *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			p := m.rows[i]
			return &p, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memProductRepo) List(_ context.Context, q repo.ListQuery) ([]entity.Product, int64, error) {
	filtered := make([]entity.Product, 0, len(m.rows))
	for _, p := range m.rows {
		if q.Category == "" || p.Category == q.Category {
			filtered = append(filtered, p)
		}
	}
	total := int64(len(filtered))

	sort.SliceStable(filtered, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "name":
			less = filtered[i].Name < filtered[j].Name
		case "price":
			less = filtered[i].Price < filtered[j].Price
		default:
			less = filtered[i].ID < filtered[j].ID
		}
		if q.SortDesc {
			return !less
		}
		return less
	})

	if q.Offset >= len(filtered) {
		return []entity.Product{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[q.Offset:end], total, nil
}

func (m *memProductRepo) Update(_ context.Context, id string, patch repo.ProductPatch) (*entity.Product, error) {
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		p := &m.rows[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.ImageURL != nil {
			p.ImageURL = *patch.ImageURL
		}
		p.UpdatedAt = time.Now()
		out := *p
		return &out, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memProductRepo) Delete(_ context.Context, id string) (*entity.Product, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			p := m.rows[i]
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return &p, nil
		}
	}
	return nil, repo.ErrNotFound
}

type productTestEnv struct {
	router *gin.Engine
	repo   *memProductRepo
	jwt    *helpers.JWTManager
}

func newProductEnv(t *testing.T) *productTestEnv {
	t.Helper()
	mem := &memProductRepo{}
	logger := logrus.New()
	svc := application.NewProductService(mem, nil, nil, "", logger)
	images := storage.NewLocalStore(t.TempDir(), 1<<20)
	handler := handlers.NewProductHandler(svc, images, logger)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	r := gin.New()
	api := r.Group("/api")
	modules.NewProductModule(handler, jwt).Register(api)
	return &productTestEnv{router: r, repo: mem, jwt: jwt}
}

func (e *productTestEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.jwt.Generate("admin-1", string(entity.RoleAdmin))
	require.NoError(t, err)
	return token
}

func (e *productTestEnv) userToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.jwt.Generate("user-1", string(entity.RoleUser))
	require.NoError(t, err)
	return token
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func productForm(t *testing.T, fields map[string]string, imageName string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (e *productTestEnv) do(method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *productTestEnv) createProduct(t *testing.T, name, category string, price float64) string {
	t.Helper()
	body, ct := productForm(t, map[string]string{
		"name":        name,
		"description": name + " description",
		"price":       fmt.Sprintf("%.2f", price),
		"category":    category,
	}, "photo.png", pngBytes)
	w := e.do(http.MethodPost, "/api/products", e.adminToken(t), body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data entity.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func TestCreateProductRequiresAuth(t *testing.T) {
	env := newProductEnv(t)
	body, ct := productForm(t, map[string]string{"name": "x"}, "", nil)

	w := env.do(http.MethodPost, "/api/products", "", body, ct)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	env := newProductEnv(t)
	body, ct := productForm(t, map[string]string{"name": "x"}, "", nil)

	w := env.do(http.MethodPost, "/api/products", env.userToken(t), body, ct)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateProduct(t *testing.T) {
	env := newProductEnv(t)
	body, ct := productForm(t, map[string]string{
		"name":        "Mug",
		"description": "A mug",
		"price":       "9.99",
		"category":    "kitchen",
		"stock":       "7",
	}, "mug.png", pngBytes)

	w := env.do(http.MethodPost, "/api/products", env.adminToken(t), body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data entity.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "Mug", resp.Data.Name)
	assert.Equal(t, 7, resp.Data.Stock)
	assert.Contains(t, resp.Data.ImageURL, "/uploads/")
}

func TestCreateThenGetProduct(t *testing.T) {
	env := newProductEnv(t)
	body, ct := productForm(t, map[string]string{
		"name":        "Walnut Tray",
		"description": "Serving tray milled from walnut",
		"price":       "34.50",
		"category":    "kitchen",
		"stock":       "12",
	}, "tray.png", pngBytes)

	w := env.do(http.MethodPost, "/api/products", env.adminToken(t), body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data entity.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	w = env.do(http.MethodGet, "/api/products/"+created.Data.ID, "", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fetched struct {
		Data entity.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.Data.ID, fetched.Data.ID)
	assert.Equal(t, "Walnut Tray", fetched.Data.Name)
	assert.Equal(t, "Serving tray milled from walnut", fetched.Data.Description)
	assert.Equal(t, 34.50, fetched.Data.Price)
	assert.Equal(t, "kitchen", fetched.Data.Category)
	assert.Equal(t, 12, fetched.Data.Stock)
	assert.True(t, strings.HasPrefix(fetched.Data.ImageURL, "/uploads/"))
	assert.Equal(t, created.Data.ImageURL, fetched.Data.ImageURL)
}

func TestCreateProductMissingImage(t *testing.T) {
	env := newProductEnv(t)
	body, ct := productForm(t, map[string]string{
		"name":        "Mug",
		"description": "A mug",
		"price":       "9.99",
		"category":    "kitchen",
	}, "", nil)

	w := env.do(http.MethodPost, "/api/products", env.adminToken(t), body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "image is required")
}

func TestCreateProductMissingFields(t *testing.T) {
	env := newProductEnv(t)
	body, ct := productForm(t, map[string]string{"name": "Mug"}, "mug.png", pngBytes)

	w := env.do(http.MethodPost, "/api/products", env.adminToken(t), body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductBadImageType(t *testing.T) {
	env := newProductEnv(t)
	body, ct := productForm(t, map[string]string{
		"name":        "Mug",
		"description": "A mug",
		"price":       "9.99",
		"category":    "kitchen",
	}, "notes.txt", []byte("plain text"))

	w := env.do(http.MethodPost, "/api/products", env.adminToken(t), body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductImageTooLarge(t *testing.T) {
	env := newProductEnv(t)
	big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 1<<20)...)
	body, ct := productForm(t, map[string]string{
		"name":        "Mug",
		"description": "A mug",
		"price":       "9.99",
		"category":    "kitchen",
	}, "huge.png", big)

	w := env.do(http.MethodPost, "/api/products", env.adminToken(t), body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProductMergesFields(t *testing.T) {
	env := newProductEnv(t)
	id := env.createProduct(t, "Mug", "kitchen", 9.99)

	body, ct := productForm(t, map[string]string{"price": "12.50"}, "", nil)
	w := env.do(http.MethodPut, "/api/products/"+id, env.adminToken(t), body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data entity.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12.50, resp.Data.Price)
	assert.Equal(t, "Mug", resp.Data.Name)
	assert.Equal(t, "kitchen", resp.Data.Category)
	assert.Contains(t, resp.Data.ImageURL, "/uploads/")
}

func TestUpdateUnknownProduct(t *testing.T) {
	env := newProductEnv(t)
	body, ct := productForm(t, map[string]string{"price": "1.00"}, "", nil)

	w := env.do(http.MethodPut, "/api/products/99999999-9999-9999-9999-999999999999", env.adminToken(t), body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProductTwice(t *testing.T) {
	env := newProductEnv(t)
	id := env.createProduct(t, "Mug", "kitchen", 9.99)

	w := env.do(http.MethodDelete, "/api/products/"+id, env.adminToken(t), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "product deleted")

	w = env.do(http.MethodDelete, "/api/products/"+id, env.adminToken(t), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductBadID(t *testing.T) {
	env := newProductEnv(t)

	w := env.do(http.MethodGet, "/api/products/not-a-uuid", "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProductsPagination(t *testing.T) {
	env := newProductEnv(t)
	for i := 0; i < 5; i++ {
		env.createProduct(t, fmt.Sprintf("Item %d", i), "misc", float64(i))
	}

	page := func(n int) []entity.Product {
		w := env.do(http.MethodGet, fmt.Sprintf("/api/products?page=%d&limit=2", n), "", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data struct {
				Total    int64            `json:"total"`
				Products []entity.Product `json:"products"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.EqualValues(t, 5, resp.Data.Total)
		return resp.Data.Products
	}

	p1, p2, p3 := page(1), page(2), page(3)
	assert.Len(t, p1, 2)
	assert.Len(t, p2, 2)
	assert.Len(t, p3, 1)

	seen := map[string]bool{}
	for _, p := range append(append(p1, p2...), p3...) {
		assert.False(t, seen[p.ID], "product %s returned on two pages", p.ID)
		seen[p.ID] = true
	}
}

func TestListProductsCategoryFilter(t *testing.T) {
	env := newProductEnv(t)
	env.createProduct(t, "Mug", "kitchen", 9.99)
	env.createProduct(t, "Pan", "kitchen", 24.00)
	env.createProduct(t, "Cap", "apparel", 14.00)

	w := env.do(http.MethodGet, "/api/products?category=kitchen", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Total    int64            `json:"total"`
			Products []entity.Product `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Data.Total)
	for _, p := range resp.Data.Products {
		assert.Equal(t, "kitchen", p.Category)
	}
}

func TestListProductsSortedByPriceDesc(t *testing.T) {
	env := newProductEnv(t)
	env.createProduct(t, "Cheap", "misc", 1.00)
	env.createProduct(t, "Dear", "misc", 99.00)
	env.createProduct(t, "Mid", "misc", 50.00)

	w := env.do(http.MethodGet, "/api/products?sortBy=price&sortOrder=desc", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Products []entity.Product `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Products, 3)
	assert.Equal(t, "Dear", resp.Data.Products[0].Name)
	assert.Equal(t, "Cheap", resp.Data.Products[2].Name)
}
