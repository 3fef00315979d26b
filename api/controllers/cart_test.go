package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shoplite/shoplite-backend/api/middleware"
	"github.com/shoplite/shoplite-backend/internal/cart"
)

type stubCartService struct {
	lines map[uuid.UUID]int
}

func newStubCartService() *stubCartService {
	return &stubCartService{lines: map[uuid.UUID]int{}}
}

func (s *stubCartService) snapshot() *cart.CartDTO {
	dto := &cart.CartDTO{Items: []cart.CartLineDTO{}}
	for itemID, qty := range s.lines {
		dto.Items = append(dto.Items, cart.CartLineDTO{ItemID: itemID, Quantity: qty})
	}
	return dto
}

func (s *stubCartService) Get(context.Context, uuid.UUID) (*cart.CartDTO, error) {
	return s.snapshot(), nil
}

func (s *stubCartService) AddItem(_ context.Context, _ uuid.UUID, itemID uuid.UUID, quantity int) (*cart.CartDTO, error) {
	s.lines[itemID] += quantity
	return s.snapshot(), nil
}

func (s *stubCartService) SetQuantity(_ context.Context, _ uuid.UUID, itemID uuid.UUID, quantity int) (*cart.CartDTO, error) {
	if quantity == 0 {
		delete(s.lines, itemID)
	} else {
		s.lines[itemID] = quantity
	}
	return s.snapshot(), nil
}

func (s *stubCartService) RemoveItem(_ context.Context, _ uuid.UUID, itemID uuid.UUID) (*cart.CartDTO, error) {
	delete(s.lines, itemID)
	return s.snapshot(), nil
}

func (s *stubCartService) Clear(context.Context, uuid.UUID) (*cart.CartDTO, error) {
	s.lines = map[uuid.UUID]int{}
	return s.snapshot(), nil
}

func authedRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func decodeCartData(t *testing.T, body []byte) cart.CartDTO {
	t.Helper()
	var envelope struct {
		Data cart.CartDTO `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddEchoesFullCart(t *testing.T) {
	svc := newStubCartService()
	handler := CartAdd(svc, nil)

	itemID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/cart/add", `{"itemId":"`+itemID.String()+`","quantity":2}`)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	dto := decodeCartData(t, rec.Body.Bytes())
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart: %+v", dto)
	}
}

func TestCartAddRejectsZeroQuantity(t *testing.T) {
	handler := CartAdd(newStubCartService(), nil)

	req := authedRequest(http.MethodPost, "/api/v1/cart/add", `{"itemId":"`+uuid.NewString()+`","quantity":0}`)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartAddRejectsUnknownFields(t *testing.T) {
	handler := CartAdd(newStubCartService(), nil)

	req := authedRequest(http.MethodPost, "/api/v1/cart/add", `{"itemId":"`+uuid.NewString()+`","quantity":1,"price":9.99}`)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartUpdateZeroRemoves(t *testing.T) {
	svc := newStubCartService()
	itemID := uuid.New()
	svc.lines[itemID] = 3

	handler := CartUpdate(svc, nil)
	req := authedRequest(http.MethodPut, "/api/v1/cart/update", `{"itemId":"`+itemID.String()+`","quantity":0}`)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	dto := decodeCartData(t, rec.Body.Bytes())
	if len(dto.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", dto)
	}
}

func TestCartRemoveParsesPathParam(t *testing.T) {
	svc := newStubCartService()
	itemID := uuid.New()
	svc.lines[itemID] = 1

	router := chi.NewRouter()
	router.Delete("/api/v1/cart/remove/{itemId}", CartRemove(svc, nil))

	req := authedRequest(http.MethodDelete, "/api/v1/cart/remove/"+itemID.String(), "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	dto := decodeCartData(t, rec.Body.Bytes())
	if len(dto.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", dto)
	}
}

func TestCartGetRequiresIdentity(t *testing.T) {
	handler := CartGet(newStubCartService(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}
