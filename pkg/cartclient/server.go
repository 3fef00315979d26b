package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
)

// CredentialFunc supplies the bearer credential for the current identity.
type CredentialFunc func(ctx context.Context) (string, error)

// ServerStore talks to the cart API. Transport failures surface as
// DEPENDENCY_ERROR; API failures carry the server's error code through.
type ServerStore struct {
	baseURL    string
	httpClient *http.Client
	credential CredentialFunc
}

// NewServerStore builds a server store against baseURL. httpClient may be nil.
func NewServerStore(baseURL string, credential CredentialFunc, httpClient *http.Client) (*ServerStore, error) {
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "base url is required")
	}
	if credential == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "credential source is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &ServerStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		credential: credential,
	}, nil
}

func (s *ServerStore) Get(ctx context.Context) (Snapshot, error) {
	return s.do(ctx, http.MethodGet, "/api/v1/cart", nil)
}

func (s *ServerStore) AddItem(ctx context.Context, itemID uuid.UUID, quantity int) (Snapshot, error) {
	if err := validateAdd(itemID, quantity); err != nil {
		return Snapshot{}, err
	}
	return s.do(ctx, http.MethodPost, "/api/v1/cart/add", map[string]any{
		"itemId":   itemID,
		"quantity": quantity,
	})
}

func (s *ServerStore) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (Snapshot, error) {
	if itemID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 0 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	return s.do(ctx, http.MethodPut, "/api/v1/cart/update", map[string]any{
		"itemId":   itemID,
		"quantity": quantity,
	})
}

func (s *ServerStore) RemoveItem(ctx context.Context, itemID uuid.UUID) (Snapshot, error) {
	if itemID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return s.do(ctx, http.MethodDelete, "/api/v1/cart/remove/"+itemID.String(), nil)
}

func (s *ServerStore) Clear(ctx context.Context) (Snapshot, error) {
	return s.do(ctx, http.MethodDelete, "/api/v1/cart/clear", nil)
}

func (s *ServerStore) do(ctx context.Context, method, path string, payload any) (Snapshot, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := s.credential(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "resolve credential")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart response")
	}

	if resp.StatusCode >= 400 {
		return Snapshot{}, decodeAPIError(resp.StatusCode, data)
	}

	var envelope struct {
		Data Snapshot `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart response")
	}
	if envelope.Data.Items == nil {
		envelope.Data.Items = []Line{}
	}
	return envelope.Data, nil
}

func decodeAPIError(status int, body []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		return pkgerrors.New(pkgerrors.Code(envelope.Error.Code), envelope.Error.Message)
	}
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("cart request failed with status %d", status))
}
