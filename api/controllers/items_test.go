package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shoplite/shoplite-backend/internal/items"
	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
)

type stubItemService struct {
	lastFilters items.ListFilters
	list        *items.ItemListDTO
}

func (s *stubItemService) List(_ context.Context, filters items.ListFilters) (*items.ItemListDTO, error) {
	s.lastFilters = filters
	if s.list != nil {
		return s.list, nil
	}
	return &items.ItemListDTO{Items: []items.ItemDTO{}}, nil
}

func (s *stubItemService) Get(context.Context, uuid.UUID) (*items.ItemDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
}

func (s *stubItemService) Create(context.Context, items.CreateItemInput) (*items.ItemDTO, error) {
	return &items.ItemDTO{ID: uuid.New()}, nil
}

func (s *stubItemService) Update(context.Context, uuid.UUID, items.UpdateItemInput) (*items.ItemDTO, error) {
	return &items.ItemDTO{}, nil
}

func (s *stubItemService) Delete(context.Context, uuid.UUID) error {
	return nil
}

func TestItemsListParsesFilters(t *testing.T) {
	svc := &stubItemService{}
	handler := ItemsList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?category=Books&minPrice=5&maxPrice=20&search=go&sortBy=price&sortOrder=asc", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	f := svc.lastFilters
	if f.Category == nil || f.Category.String() != "Books" {
		t.Fatalf("category not parsed: %+v", f)
	}
	if f.MinPrice == nil || f.MaxPrice == nil || f.Search != "go" || f.SortBy != "price" || f.SortOrder != "asc" {
		t.Fatalf("filters not parsed: %+v", f)
	}
}

func TestItemsListIDsOverrideFilters(t *testing.T) {
	svc := &stubItemService{}
	handler := ItemsList(svc, nil)

	id1, id2 := uuid.New(), uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?ids="+id1.String()+","+id2.String()+"&category=Books", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	f := svc.lastFilters
	if len(f.IDs) != 2 || f.Category != nil {
		t.Fatalf("expected ids-only filters, got %+v", f)
	}
}

func TestItemsListRejectsUnknownCategory(t *testing.T) {
	handler := ItemsList(&stubItemService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?category=Gadgets", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestItemsListRejectsMalformedIDs(t *testing.T) {
	handler := ItemsList(&stubItemService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?ids=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestItemsGetUnknownIsNotFound(t *testing.T) {
	router := newItemsRouter(&stubItemService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func newItemsRouter(svc items.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/items/{itemId}", ItemsGet(svc, nil))
	return r
}
