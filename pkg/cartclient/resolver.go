package cartclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/shoplite/shoplite-backend/pkg/errors"
)

// ResolvedItem is the catalog's current view of one item reference.
type ResolvedItem struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Stock int             `json:"stock"`
}

// Resolver turns a set of item ids into their current catalog rows. Ids the
// catalog no longer knows are absent from the result, never an error.
type Resolver interface {
	ResolveMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ResolvedItem, error)
}

// HTTPResolver resolves item references through the catalog's batch lookup
// endpoint.
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPResolver builds a resolver against baseURL. httpClient may be nil.
func NewHTTPResolver(baseURL string, httpClient *http.Client) (*HTTPResolver, error) {
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "base url is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPResolver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

func (r *HTTPResolver) ResolveMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ResolvedItem, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]ResolvedItem{}, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	url := fmt.Sprintf("%s/api/v1/items?ids=%s", r.baseURL, strings.Join(raw, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve items")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read resolver response")
	}
	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}

	var envelope struct {
		Data struct {
			Items []ResolvedItem `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode resolver response")
	}

	resolved := make(map[uuid.UUID]ResolvedItem, len(envelope.Data.Items))
	for _, item := range envelope.Data.Items {
		resolved[item.ID] = item
	}
	return resolved, nil
}
