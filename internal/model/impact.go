package model

const (
	treesPerTon = 2.7
	homesPerTon = 0.45
)

// Impact holds the running environmental totals of the dashboard overview.
type Impact struct {
	TotalEnergy     int     `json:"total_energy_kwh"`
	CarbonOffset    float64 `json:"carbon_offset_tons"`
	CommunityImpact float64 `json:"community_impact"`
	TreesPlanted    int     `json:"trees_planted"`
}

// TreesEquivalent converts the carbon offset into planted-tree equivalents.
func (i Impact) TreesEquivalent() float64 {
	return i.CarbonOffset * treesPerTon
}

// HomesPowered converts the carbon offset into homes powered for a year.
func (i Impact) HomesPowered() float64 {
	return i.CarbonOffset * homesPerTon
}
