package httpserver

import (
	"time"

	"go-market-cache/internal/models"
	"go-market-cache/internal/query"
)

// ErrorResponse is returned for requests that produced no data
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status string            `json:"status"`
	Time   time.Time         `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// QueryResponse is the JSON view of a query result, used by the REST routes and stream frames
type QueryResponse struct {
	Key       string             `json:"key"`
	Status    models.QueryStatus `json:"status"`
	Data      interface{}        `json:"data"`
	Error     string             `json:"error,omitempty"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty"`
	Fetching  bool               `json:"fetching"`
}

// newQueryResponse converts a query result
func newQueryResponse(res query.Result) QueryResponse {
	resp := QueryResponse{
		Key:      res.Key.String(),
		Status:   res.Status,
		Data:     res.Data,
		Fetching: res.IsFetching,
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	if !res.UpdatedAt.IsZero() {
		updated := res.UpdatedAt.UTC()
		resp.UpdatedAt = &updated
	}
	return resp
}

// CurrencyRequest is the body of PUT /v1/preferences/currency
type CurrencyRequest struct {
	Currency string `json:"currency"`
}

// CurrencyResponse reports the selected currency
type CurrencyResponse struct {
	Currency  models.Currency   `json:"currency"`
	Supported []models.Currency `json:"supported"`
}

// WatchlistResponse reports the watchlist
type WatchlistResponse struct {
	IDs         []string `json:"ids"`
	Watchlisted *bool    `json:"watchlisted,omitempty"`
}

// StreamRequest is a client frame on the live stream; it changes the search term
type StreamRequest struct {
	Query string `json:"query"`
}
