package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/storelane/storelane-api/internal/domain/entity"
	repo "github.com/storelane/storelane-api/internal/domain/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ProductService implements the catalog use cases on top of the product
// repository. Event publishing and Elasticsearch indexing are optional
// collaborators; a nil publisher or client disables them.
type ProductService struct {
	Repo    repo.ProductRepository
	Events  *EventPublisher
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewProductService(r repo.ProductRepository, events *EventPublisher, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *ProductService {
	return &ProductService{Repo: r, Events: events, ES: es, ESIndex: esIndex, Logger: logger}
}

// ListParams are the raw, un-normalized listing inputs as parsed from the
// query string.
type ListParams struct {
	Page      int
	Limit     int
	Category  string
	SortBy    string
	SortOrder string
}

type ListResult struct {
	Total    int64            `json:"total"`
	Products []entity.Product `json:"products"`
}

// normalize clamps pagination inputs: page < 1 becomes 1, limit < 1 becomes
// the default, and limit is capped to keep a single page bounded.
func (p ListParams) normalize() repo.ListQuery {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return repo.ListQuery{
		Category: p.Category,
		SortBy:   p.SortBy,
		SortDesc: strings.EqualFold(p.SortOrder, "desc"),
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}
}

func (s *ProductService) List(ctx context.Context, p ListParams) (*ListResult, error) {
	products, total, err := s.Repo.List(ctx, p.normalize())
	if err != nil {
		return nil, err
	}
	return &ListResult{Total: total, Products: products}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
	ImageURL    string
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	p := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, EventProductCreated, p.ID, p.Name)
	s.indexProduct(ctx, p)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch repo.ProductPatch) (*entity.Product, error) {
	p, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.Events.Publish(ctx, EventProductUpdated, p.ID, p.Name)
	s.indexProduct(ctx, p)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.Events.Publish(ctx, EventProductDeleted, p.ID, p.Name)
	s.removeProductIndex(ctx, p.ID)
	return p, nil
}

func (s *ProductService) indexProduct(ctx context.Context, p *entity.Product) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"stock":       p.Stock,
		"image_url":   p.ImageURL,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
}

func (s *ProductService) removeProductIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query on name, description and category.
func (s *ProductService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = defaultPageSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
