package httpserver

import (
	"context"
	"errors"
	"net/http"

	"go-market-cache/internal/market"
	"go-market-cache/internal/preferences"
	"go-market-cache/internal/transport"
	"go-market-cache/internal/wallet"
)

// statusForError maps a service error to the HTTP status returned to the client
func statusForError(err error) int {
	var httpErr *transport.HTTPError
	var netErr *transport.NetworkError
	var decodeErr *market.DecodeError
	var tooLarge *transport.ResponseTooLargeError

	switch {
	case errors.As(err, &httpErr):
		if httpErr.Status >= 400 && httpErr.Status < 600 {
			return httpErr.Status
		}
		return http.StatusBadGateway
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &decodeErr), errors.As(err, &tooLarge):
		return http.StatusBadGateway
	case errors.Is(err, market.ErrUnknownResource),
		errors.Is(err, preferences.ErrUnsupportedCurrency),
		errors.Is(err, preferences.ErrEmptyCoinID),
		errors.Is(err, wallet.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrDisabled):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
