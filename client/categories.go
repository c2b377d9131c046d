package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edulearn/academy-go/core/lms"
)

// CategoryService manages course categories.
type CategoryService struct {
	c *Client
}

func (s *CategoryService) List(ctx context.Context) ([]lms.Category, error) {
	var cats []lms.Category
	err := s.c.getJSON(ctx, "/api/categories", &cats)
	return cats, err
}

func (s *CategoryService) Get(ctx context.Context, id int) (lms.Category, error) {
	var cat lms.Category
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/categories/%d", id), &cat)
	return cat, err
}

func (s *CategoryService) Create(ctx context.Context, data lms.NewCategory) (lms.Category, error) {
	var cat lms.Category
	if err := data.Validate(s.c.validate); err != nil {
		return cat, err
	}
	err := s.c.sendJSON(ctx, http.MethodPost, "/api/categories", data, &cat)
	return cat, err
}

func (s *CategoryService) Update(ctx context.Context, id int, data lms.NewCategory) (lms.Category, error) {
	var cat lms.Category
	if err := data.Validate(s.c.validate); err != nil {
		return cat, err
	}
	err := s.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), data, &cat)
	return cat, err
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/api/categories/%d", id))
}
