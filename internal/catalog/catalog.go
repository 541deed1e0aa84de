// Package catalog serves the static data behind the landing page and dashboard.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrProjectNotFound is returned when a project ID is not in the catalog.
var ErrProjectNotFound = errors.New("project not found")

//go:embed catalog.yaml
var defaultData []byte

type seedTransaction struct {
	Kind   model.TxKind  `yaml:"kind"`
	Amount int           `yaml:"amount"`
	Actor  string        `yaml:"actor"`
	Age    time.Duration `yaml:"age"`
}

// Catalog is the read-only data set shared by every session.
type Catalog struct {
	Features           []model.Feature           `yaml:"features"`
	Projects           []model.Project           `yaml:"projects"`
	Actors             []string                  `yaml:"actors"`
	WalletTransactions []model.WalletTransaction `yaml:"wallet_transactions"`
	PriceHistory       []model.PricePoint        `yaml:"price_history"`
	TokenPrice         model.TokenPrice          `yaml:"token_price"`
	EnergyProfile      []model.EnergySample      `yaml:"energy_profile"`
	EnergyMix          []model.EnergyShare       `yaml:"energy_mix"`
	Achievements       []model.Achievement       `yaml:"achievements"`

	SeedTransactions []seedTransaction `yaml:"seed_transactions"`

	byID map[int]int
}

// Default parses the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(defaultData)
}

// Load parses and validates a YAML catalog.
func Load(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	if len(c.Actors) == 0 {
		return errors.New("catalog has no actors")
	}
	c.byID = make(map[int]int, len(c.Projects))
	for i, p := range c.Projects {
		if _, dup := c.byID[p.ID]; dup {
			return fmt.Errorf("duplicate project id %d", p.ID)
		}
		if !p.Type.Valid() {
			return fmt.Errorf("project %d: unknown energy type %q", p.ID, p.Type)
		}
		if !p.Status.Valid() {
			return fmt.Errorf("project %d: unknown status %q", p.ID, p.Status)
		}
		if p.Progress < 0 || p.Progress > 100 {
			return fmt.Errorf("project %d: progress %d out of range", p.ID, p.Progress)
		}
		c.byID[p.ID] = i
	}
	for i, tx := range c.SeedTransactions {
		switch tx.Kind {
		case model.TxBuy, model.TxSell, model.TxStake:
		default:
			return fmt.Errorf("seed transaction %d: unknown kind %q", i, tx.Kind)
		}
	}
	return nil
}

// Project returns the project with the given ID.
func (c *Catalog) Project(id int) (model.Project, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.Project{}, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	return c.Projects[i], nil
}

// Filter narrows the marketplace listing. Zero fields match everything.
type Filter struct {
	Type       model.EnergyType
	Status     model.ProjectStatus
	Investable bool
}

// FilterProjects returns the projects matching f in catalog order.
func (c *Catalog) FilterProjects(f Filter) []model.Project {
	out := make([]model.Project, 0, len(c.Projects))
	for _, p := range c.Projects {
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Investable && !p.Investable() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FeaturesIn returns the landing page tiles of one section.
func (c *Catalog) FeaturesIn(section string) []model.Feature {
	var out []model.Feature
	for _, f := range c.Features {
		if f.Section == section {
			out = append(out, f)
		}
	}
	return out
}

// SeedFeed materialises the initial live-feed history relative to now, newest first.
func (c *Catalog) SeedFeed(now time.Time) []model.Transaction {
	out := make([]model.Transaction, 0, len(c.SeedTransactions))
	for i := len(c.SeedTransactions) - 1; i >= 0; i-- {
		tx := c.SeedTransactions[i]
		out = append(out, model.Transaction{
			ID:        uuid.NewString(),
			Kind:      tx.Kind,
			Amount:    tx.Amount,
			Actor:     tx.Actor,
			Timestamp: now.Add(-tx.Age),
		})
	}
	return out
}
