// Package model defines domain models for the Greenchain dashboard.
package model

// EnergyType is the renewable source a project harvests.
type EnergyType string

const (
	Wind  EnergyType = "Wind"
	Solar EnergyType = "Solar"
	Hydro EnergyType = "Hydro"
)

// Valid reports whether t is one of the known energy types.
func (t EnergyType) Valid() bool {
	switch t {
	case Wind, Solar, Hydro:
		return true
	default:
		return false
	}
}

// ProjectStatus describes the funding state of a marketplace project.
type ProjectStatus string

const (
	// ProjectLive accepts investments.
	ProjectLive ProjectStatus = "Live"
	// ProjectPaused is temporarily closed for investment.
	ProjectPaused ProjectStatus = "Paused"
	// ProjectSoon is announced but not yet open.
	ProjectSoon ProjectStatus = "Soon"
	// ProjectFinished is fully funded.
	ProjectFinished ProjectStatus = "Finished"
)

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectLive, ProjectPaused, ProjectSoon, ProjectFinished:
		return true
	default:
		return false
	}
}

// Project is a renewable-energy project listed on the marketplace.
type Project struct {
	ID                int           `json:"id" yaml:"id"`
	Name              string        `json:"name" yaml:"name"`
	Location          string        `json:"location" yaml:"location"`
	Organization      string        `json:"organization" yaml:"organization"`
	CertifiedBy       string        `json:"certified_by" yaml:"certified_by"`
	EnergyCapacity    string        `json:"energy_capacity" yaml:"energy_capacity"`
	CompletionDate    string        `json:"completion_date" yaml:"completion_date"`
	Surface           string        `json:"surface" yaml:"surface"`
	Type              EnergyType    `json:"type" yaml:"type"`
	ImpactAPY         float64       `json:"impact_apy" yaml:"impact_apy"`
	Progress          int           `json:"progress" yaml:"progress"`
	Status            ProjectStatus `json:"status" yaml:"status"`
	Image             string        `json:"image" yaml:"image"`
	Description       string        `json:"description" yaml:"description"`
	CO2Reduction      string        `json:"co2_reduction" yaml:"co2_reduction"`
	HouseholdsPowered int           `json:"households_powered" yaml:"households_powered"`
	Staking           bool          `json:"staking,omitempty" yaml:"staking"`
}

// Investable reports whether the project currently accepts investments.
func (p Project) Investable() bool {
	return p.Status == ProjectLive
}

// TargetHouseholds returns the households goal in thousands.
func (p Project) TargetHouseholds() float64 {
	return float64(p.HouseholdsPowered) / 1000
}

// FundedHouseholds returns the households already covered by funding, in thousands.
func (p Project) FundedHouseholds() float64 {
	return float64(p.Progress) / 100 * p.TargetHouseholds()
}
