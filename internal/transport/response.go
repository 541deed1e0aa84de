package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/goodnatureofminers/greenchain-backend/internal/auth"
	"github.com/goodnatureofminers/greenchain-backend/internal/calc"
	"github.com/goodnatureofminers/greenchain-backend/internal/catalog"
	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/goodnatureofminers/greenchain-backend/internal/newsletter"
	"github.com/goodnatureofminers/greenchain-backend/internal/session"
	"github.com/goodnatureofminers/greenchain-backend/internal/ui"
	"github.com/goodnatureofminers/greenchain-backend/internal/wallet"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("malformed request body")

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func classify(err error) (status int, code, message string) {
	var signInErr *auth.SignInError

	switch {
	case errors.As(err, &signInErr):
		if signInErr.Status >= 400 && signInErr.Status < 500 {
			return signInErr.Status, "signin_rejected", signInErr.Message
		}
		return http.StatusBadGateway, "signin_failed", signInErr.Message
	case errors.Is(err, errSignInUnavailable):
		return http.StatusNotImplemented, "not_implemented", err.Error()
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, catalog.ErrProjectNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, session.ErrStoreFull),
		errors.Is(err, session.ErrStoreClosed):
		return http.StatusServiceUnavailable, "unavailable", err.Error()
	case errors.Is(err, calc.ErrStakeBelowMinimum),
		errors.Is(err, calc.ErrPeriodBelowMinimum),
		errors.Is(err, calc.ErrPeriodAboveMaximum),
		errors.Is(err, calc.ErrInsufficientBalance),
		errors.Is(err, wallet.ErrNothingToExchange):
		return http.StatusUnprocessableEntity, "rejected", err.Error()
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrUnknownCurrency),
		errors.Is(err, ui.ErrUnknownAction),
		errors.Is(err, ui.ErrUnknownRoute),
		errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, newsletter.ErrInvalidEmail):
		return http.StatusBadRequest, "bad_request", err.Error()
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// decode reads an optional JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
