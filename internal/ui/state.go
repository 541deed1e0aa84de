// Package ui holds the view and navigation state of a dashboard session as pure reducers.
package ui

import (
	"errors"
	"time"
)

var (
	// ErrUnknownAction is returned by Reduce for an action type it does not handle.
	ErrUnknownAction = errors.New("unknown ui action")
	// ErrUnknownRoute is returned when navigating to a page the dashboard does not have.
	ErrUnknownRoute = errors.New("unknown route")
)

// Routes the shell can navigate to.
const (
	RouteLanding     = "/"
	RouteSignIn      = "/signin"
	RouteSignUp      = "/signup"
	RouteDashboard   = "/dashboard"
	RouteMarketplace = "/dashboard/marketplace"
	RouteWallet      = "/dashboard/wallet"
	RouteSettings    = "/dashboard/settings"
)

var knownRoutes = map[string]struct{}{
	RouteLanding:     {},
	RouteSignIn:      {},
	RouteSignUp:      {},
	RouteDashboard:   {},
	RouteMarketplace: {},
	RouteWallet:      {},
	RouteSettings:    {},
}

// SidebarState is open or closed.
type SidebarState string

const (
	SidebarOpen   SidebarState = "open"
	SidebarClosed SidebarState = "closed"
)

// ModalKind names which dialog is in front, if any.
type ModalKind string

const (
	ModalClosed    ModalKind = "closed"
	ModalProject   ModalKind = "project"
	ModalStakeInfo ModalKind = "stake_info"
)

// Modal is the dialog state. ProjectID is set only for ModalProject.
type Modal struct {
	Kind      ModalKind `json:"kind"`
	ProjectID int       `json:"project_id,omitempty"`
}

// BannerKind is the tone of a transient notification.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is a notification shown until a deadline.
type Banner struct {
	Kind    BannerKind `json:"kind,omitempty"`
	Message string     `json:"message,omitempty"`
	Until   time.Time  `json:"until,omitempty"`
}

// Visible reports whether the banner is still on screen at now.
func (b Banner) Visible(now time.Time) bool {
	return b.Message != "" && now.Before(b.Until)
}

// State is the complete view state of one session.
type State struct {
	Sidebar SidebarState `json:"sidebar"`
	Modal   Modal        `json:"modal"`
	Banner  Banner       `json:"banner"`
	Route   string       `json:"route"`
}

// Initial is the state of a freshly signed-in session.
func Initial() State {
	return State{
		Sidebar: SidebarOpen,
		Modal:   Modal{Kind: ModalClosed},
		Route:   RouteDashboard,
	}
}

// ToggleSidebar flips the sidebar.
func ToggleSidebar(s State) State {
	if s.Sidebar == SidebarOpen {
		s.Sidebar = SidebarClosed
	} else {
		s.Sidebar = SidebarOpen
	}
	return s
}

// Resize opens the sidebar on wide viewports and closes it below breakpoint.
func Resize(s State, width, breakpoint int) State {
	if width < breakpoint {
		s.Sidebar = SidebarClosed
	} else {
		s.Sidebar = SidebarOpen
	}
	return s
}

func OpenProject(s State, id int) State {
	s.Modal = Modal{Kind: ModalProject, ProjectID: id}
	return s
}

func OpenStakeInfo(s State) State {
	s.Modal = Modal{Kind: ModalStakeInfo}
	return s
}

func CloseModal(s State) State {
	s.Modal = Modal{Kind: ModalClosed}
	return s
}

// ShowBanner replaces any current banner with one visible for d from now.
func ShowBanner(s State, kind BannerKind, message string, now time.Time, d time.Duration) State {
	s.Banner = Banner{Kind: kind, Message: message, Until: now.Add(d)}
	return s
}

func DismissBanner(s State) State {
	s.Banner = Banner{}
	return s
}

// Navigate moves to route, closing any open modal.
func Navigate(s State, route string) (State, error) {
	if _, ok := knownRoutes[route]; !ok {
		return s, ErrUnknownRoute
	}
	s.Route = route
	s.Modal = Modal{Kind: ModalClosed}
	return s, nil
}

// SignOut resets the view and lands on the sign-in page.
func SignOut() State {
	s := Initial()
	s.Route = RouteSignIn
	return s
}
