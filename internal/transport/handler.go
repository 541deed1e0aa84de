// Package transport exposes the dashboard over HTTP, a websocket stream and gRPC health.
package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goodnatureofminers/greenchain-backend/internal/auth"
	"github.com/goodnatureofminers/greenchain-backend/internal/calc"
	"github.com/goodnatureofminers/greenchain-backend/internal/catalog"
	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/goodnatureofminers/greenchain-backend/internal/session"
	"github.com/goodnatureofminers/greenchain-backend/internal/ui"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var errSignInUnavailable = errors.New("sign in is not available")

// Handler serves the dashboard API.
type Handler struct {
	catalog    *catalog.Catalog
	sessions   SessionStore
	auth       Authenticator
	newsletter Newsletter
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

// NewHandler builds a Handler. authenticator may be nil, in which case sign-in answers
// 501 Not Implemented.
func NewHandler(
	cat *catalog.Catalog,
	sessions SessionStore,
	authenticator Authenticator,
	newsletter Newsletter,
	logger *zap.Logger,
) (*Handler, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if newsletter == nil {
		return nil, errors.New("newsletter is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	return &Handler{
		catalog:    cat,
		sessions:   sessions,
		auth:       authenticator,
		newsletter: newsletter,
		logger:     logger.Named("http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS is enforced by the outer handler.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}, nil
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/landing", h.landing).Methods(http.MethodGet)
	api.HandleFunc("/auth/signin", h.signIn).Methods(http.MethodPost)
	api.HandleFunc("/projects", h.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id:[0-9]+}", h.getProject).Methods(http.MethodGet)
	api.HandleFunc("/newsletter", h.subscribe).Methods(http.MethodPost)

	s := api.PathPrefix("/sessions/{sid}").Subrouter()
	s.HandleFunc("", h.signOut).Methods(http.MethodDelete)
	s.HandleFunc("/wallet", h.withSession(h.walletView)).Methods(http.MethodGet)
	s.HandleFunc("/wallet/exchange/quote", h.withSession(h.exchangeQuote)).Methods(http.MethodPost)
	s.HandleFunc("/wallet/exchange", h.withSession(h.exchange)).Methods(http.MethodPost)
	s.HandleFunc("/wallet/stake/quote", h.withSession(h.stakeQuote)).Methods(http.MethodPost)
	s.HandleFunc("/wallet/stake", h.withSession(h.stake)).Methods(http.MethodPost)
	s.HandleFunc("/overview", h.withSession(h.overview)).Methods(http.MethodGet)
	s.HandleFunc("/feed", h.withSession(h.stream)).Methods(http.MethodGet)
	s.HandleFunc("/ui", h.withSession(h.viewState)).Methods(http.MethodGet)
	s.HandleFunc("/ui", h.withSession(h.dispatch)).Methods(http.MethodPost)

	return r
}

type sessionHandlerFunc func(http.ResponseWriter, *http.Request, *session.Session)

func (h *Handler) withSession(next sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessions.Get(mux.Vars(r)["sid"])
		if err != nil {
			h.writeError(w, err)
			return
		}
		next(w, r, sess)
	}
}

type landingResponse struct {
	Energy []model.Feature `json:"energy"`
	Why    []model.Feature `json:"why"`
}

func (h *Handler) landing(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, landingResponse{
		Energy: h.catalog.FeaturesIn("energy"),
		Why:    h.catalog.FeaturesIn("why"),
	})
}

type signInResponse struct {
	SessionID string `json:"session_id"`
	Redirect  string `json:"redirect"`
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		h.writeError(w, errSignInUnavailable)
		return
	}

	var creds auth.Credentials
	if err := decode(r, &creds); err != nil {
		h.writeError(w, err)
		return
	}
	res, err := h.auth.SignIn(r.Context(), creds)
	if err != nil {
		h.writeError(w, err)
		return
	}
	sess, err := h.sessions.Create(creds.Email)
	if err != nil {
		h.writeError(w, fmt.Errorf("open session: %w", err))
		return
	}

	h.writeJSON(w, http.StatusOK, signInResponse{SessionID: sess.ID, Redirect: res.Redirect})
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(mux.Vars(r)["sid"]); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, redirectResponse{Redirect: ui.RouteSignIn})
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Type:   model.EnergyType(q.Get("type")),
		Status: model.ProjectStatus(q.Get("status")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		h.writeError(w, fmt.Errorf("%w: unknown type %q", errBadRequest, filter.Type))
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		h.writeError(w, fmt.Errorf("%w: unknown status %q", errBadRequest, filter.Status))
		return
	}
	if raw := q.Get("investable"); raw != "" {
		investable, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: investable: %v", errBadRequest, err))
			return
		}
		filter.Investable = investable
	}

	h.writeJSON(w, http.StatusOK, h.catalog.FilterProjects(filter))
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: project id: %v", errBadRequest, err))
		return
	}
	p, err := h.catalog.Project(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.newsletter.Subscribe(r.Context(), req.Email); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) walletView(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	h.writeJSON(w, http.StatusOK, sess.WalletView())
}

type exchangeRequest struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

func (h *Handler) exchangeQuote(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req exchangeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	quote, err := sess.Wallet.SetExchangeInput(req.Currency, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

type exchangeResponse struct {
	Quote   calc.ExchangeQuote `json:"quote"`
	Balance string             `json:"balance"`
	View    ui.State           `json:"view"`
}

// exchange submits the exchange form; fields present in the request body replace
// the stored ones first.
func (h *Handler) exchange(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req exchangeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Currency != "" || req.Amount != "" {
		form := sess.Wallet.Snapshot().ExchangeForm
		currency, amount := req.Currency, req.Amount
		if currency == "" {
			currency = string(form.Currency)
		}
		if amount == "" {
			amount = form.Amount
		}
		if _, err := sess.Wallet.SetExchangeInput(currency, amount); err != nil {
			h.writeError(w, err)
			return
		}
	}

	quote, view, err := sess.SubmitExchange()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, exchangeResponse{
		Quote:   quote,
		Balance: calc.Display(sess.Wallet.Balance()),
		View:    view,
	})
}

type stakeRequest struct {
	Amount     string `json:"amount"`
	PeriodDays int    `json:"period_days"`
}

func (r stakeRequest) intent() model.StakeIntent {
	return model.StakeIntent{Amount: calc.ParseAmount(r.Amount), PeriodDays: r.PeriodDays}
}

func (h *Handler) stakeQuote(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req stakeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess.Wallet.SetStakeInput(req.intent()))
}

type stakeResponse struct {
	Position model.StakePosition `json:"position"`
	Balance  string              `json:"balance"`
	View     ui.State            `json:"view"`
}

// stake submits the staking form; a request body replaces the form first.
func (h *Handler) stake(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req *stakeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req != nil {
		sess.Wallet.SetStakeInput(req.intent())
	}

	position, view, err := sess.SubmitStake()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stakeResponse{
		Position: position,
		Balance:  calc.Display(sess.Wallet.Balance()),
		View:     view,
	})
}

func (h *Handler) overview(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	h.writeJSON(w, http.StatusOK, sess.Overview())
}

func (h *Handler) viewState(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	h.writeJSON(w, http.StatusOK, sess.View())
}

// dispatch applies a view action. Signing out also ends the session.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var action ui.Action
	if err := decode(r, &action); err != nil {
		h.writeError(w, err)
		return
	}
	state, err := sess.Dispatch(action)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if action.Type == ui.ActionSignOut {
		if err := h.sessions.Delete(sess.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
			h.writeError(w, err)
			return
		}
	}
	h.writeJSON(w, http.StatusOK, state)
}
