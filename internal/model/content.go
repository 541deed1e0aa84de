package model

// PricePoint is a monthly token price sample.
type PricePoint struct {
	Date  string  `json:"date" yaml:"date"`
	Price float64 `json:"price" yaml:"price"`
}

// EnergySample is the energy produced at a time of day.
type EnergySample struct {
	Time   string `json:"time" yaml:"time"`
	Energy int    `json:"energy" yaml:"energy"`
}

// EnergyShare is the percentage of the energy flow coming from one source.
type EnergyShare struct {
	Source  string `json:"source" yaml:"source"`
	Percent int    `json:"percent" yaml:"percent"`
}

// Achievement is a badge earned by the investor.
type Achievement struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
}

// Feature is a tile of the landing page.
type Feature struct {
	Section     string `json:"section" yaml:"section"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// TokenPrice is the quoted token price with its daily change.
type TokenPrice struct {
	USD       float64 `json:"usd" yaml:"usd"`
	Change24h float64 `json:"change_24h_percent" yaml:"change_24h_percent"`
}
