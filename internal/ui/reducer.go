package ui

import (
	"fmt"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/clock"
)

const (
	defaultBreakpoint     = 1024
	defaultBannerDuration = 3 * time.Second
)

// ActionType identifies a view action.
type ActionType string

const (
	ActionToggleSidebar ActionType = "toggle_sidebar"
	ActionResize        ActionType = "resize"
	ActionOpenProject   ActionType = "open_project"
	ActionOpenStakeInfo ActionType = "open_stake_info"
	ActionCloseModal    ActionType = "close_modal"
	ActionShowBanner    ActionType = "show_banner"
	ActionDismissBanner ActionType = "dismiss_banner"
	ActionNavigate      ActionType = "navigate"
	ActionSignOut       ActionType = "sign_out"
)

// Action is a view event. Only the fields relevant to Type are read.
type Action struct {
	Type      ActionType `json:"type"`
	Width     int        `json:"width,omitempty"`
	ProjectID int        `json:"project_id,omitempty"`
	Kind      BannerKind `json:"kind,omitempty"`
	Message   string     `json:"message,omitempty"`
	Route     string     `json:"route,omitempty"`
}

// Config tunes the reducer.
type Config struct {
	Breakpoint     int
	BannerDuration time.Duration
}

// DefaultConfig returns the 1024px breakpoint and a 3s banner.
func DefaultConfig() Config {
	return Config{Breakpoint: defaultBreakpoint, BannerDuration: defaultBannerDuration}
}

// Reducer applies actions to a State.
type Reducer struct {
	cfg   Config
	clock clock.Clock
}

// NewReducer builds a Reducer; zero config fields take defaults.
func NewReducer(cfg Config, clk clock.Clock) *Reducer {
	if cfg.Breakpoint <= 0 {
		cfg.Breakpoint = defaultBreakpoint
	}
	if cfg.BannerDuration <= 0 {
		cfg.BannerDuration = defaultBannerDuration
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Reducer{cfg: cfg, clock: clk}
}

// Now returns the reducer's current time.
func (r *Reducer) Now() time.Time {
	return r.clock.Now()
}

// Banner shows a banner for the configured duration.
func (r *Reducer) Banner(s State, kind BannerKind, message string) State {
	return ShowBanner(s, kind, message, r.clock.Now(), r.cfg.BannerDuration)
}

// Reduce applies a to s. Expired banners are cleared on every call.
func (r *Reducer) Reduce(s State, a Action) (State, error) {
	var err error

	switch a.Type {
	case ActionToggleSidebar:
		s = ToggleSidebar(s)
	case ActionResize:
		s = Resize(s, a.Width, r.cfg.Breakpoint)
	case ActionOpenProject:
		s = OpenProject(s, a.ProjectID)
	case ActionOpenStakeInfo:
		s = OpenStakeInfo(s)
	case ActionCloseModal:
		s = CloseModal(s)
	case ActionShowBanner:
		kind := a.Kind
		if kind == "" {
			kind = BannerSuccess
		}
		s = r.Banner(s, kind, a.Message)
	case ActionDismissBanner:
		s = DismissBanner(s)
	case ActionNavigate:
		s, err = Navigate(s, a.Route)
		if err != nil {
			return s, fmt.Errorf("navigate to %q: %w", a.Route, err)
		}
	case ActionSignOut:
		s = SignOut()
	default:
		return s, fmt.Errorf("reduce %q: %w", a.Type, ErrUnknownAction)
	}

	return r.Expire(s), nil
}

// Expire drops a banner whose deadline has passed.
func (r *Reducer) Expire(s State) State {
	if s.Banner.Message != "" && !s.Banner.Visible(r.clock.Now()) {
		s = DismissBanner(s)
	}
	return s
}
