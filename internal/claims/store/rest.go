package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

// REST talks to a remote claims service over its documented HTTP contract:
//
//	GET  /api/claims
//	GET  /api/claims/{id}
//	POST /api/claims            -> {"id": "..."}
//	PUT  /api/claims/{id}/status with {"status": "..."}
//
// Transport failures come back as CodeUnavailable so the registry keeps its
// previous snapshot.
type REST struct {
	baseURL string
	client  *http.Client
}

// NewREST builds a REST store for the given base URL.
func NewREST(baseURL string, client *http.Client) *REST {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &REST{baseURL: baseURL, client: client}
}

func (s *REST) ListClaims(ctx context.Context) ([]models.ClaimRecord, error) {
	var out []models.ClaimRecord
	if err := s.do(ctx, http.MethodGet, "/api/claims", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *REST) GetClaim(ctx context.Context, id string) (*models.ClaimRecord, error) {
	var rec models.ClaimRecord
	if err := s.do(ctx, http.MethodGet, "/api/claims/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *REST) CreateClaim(ctx context.Context, draft models.ClaimRecord) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/claims", draft, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", domainerrors.New(domainerrors.CodeUnavailable, "store returned no claim id")
	}
	return resp.ID, nil
}

func (s *REST) UpdateStatus(ctx context.Context, id string, status models.ClaimStatus) error {
	body := map[string]string{"status": string(status)}
	return s.do(ctx, http.MethodPut, "/api/claims/"+url.PathEscape(id)+"/status", body, nil)
}

func (s *REST) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domainerrors.Wrap(domainerrors.CodeUnavailable, "claims store unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return domainerrors.New(domainerrors.CodeNotFound, "claim not found")
	case resp.StatusCode == http.StatusBadRequest:
		return domainerrors.New(domainerrors.CodeBadRequest, "store rejected request")
	case resp.StatusCode == http.StatusConflict:
		return domainerrors.New(domainerrors.CodeConflict, "store reported conflict")
	default:
		return domainerrors.New(domainerrors.CodeUnavailable,
			fmt.Sprintf("store returned %d for %s %s", resp.StatusCode, method, path))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domainerrors.Wrap(domainerrors.CodeUnavailable, "decode store response", err)
	}
	return nil
}

var _ Store = (*REST)(nil)
