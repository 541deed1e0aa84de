// Package feed simulates the live community activity shown on the dashboard overview.
package feed

import (
	"errors"

	"github.com/goodnatureofminers/greenchain-backend/internal/clock"
	"github.com/goodnatureofminers/greenchain-backend/internal/model"
	"github.com/google/uuid"
)

// Step is the outcome of one simulated tick.
type Step struct {
	Transaction    model.Transaction
	EnergyDelta    int
	CarbonDelta    float64
	CommunityDelta float64
	TreePlanted    bool
}

// Generator draws synthetic transactions and impact increments.
type Generator struct {
	rand   Random
	clock  clock.Clock
	actors []string
	newID  func() string
}

// NewGenerator builds a Generator picking actors from the given names.
func NewGenerator(rnd Random, clk clock.Clock, actors []string) (*Generator, error) {
	if rnd == nil {
		return nil, errors.New("random source is required")
	}
	if clk == nil {
		return nil, errors.New("clock is required")
	}
	if len(actors) == 0 {
		return nil, errors.New("at least one actor is required")
	}
	return &Generator{
		rand:   rnd,
		clock:  clk,
		actors: append([]string(nil), actors...),
		newID:  uuid.NewString,
	}, nil
}

// Next draws one step. Kind, amount (1..500), actor and energy delta (0..9) are
// uniform; a tree is planted with probability 0.3 and community impact grows by [0, 2).
func (g *Generator) Next() Step {
	kind := model.TxKinds[g.rand.IntN(len(model.TxKinds))]
	amount := g.rand.IntN(maxAmount) + 1
	actor := g.actors[g.rand.IntN(len(g.actors))]
	energy := g.rand.IntN(energyDeltaRange)
	tree := g.rand.Float64() > treeThreshold
	community := g.rand.Float64() * maxCommunityDelta

	return Step{
		Transaction: model.Transaction{
			ID:        g.newID(),
			Kind:      kind,
			Amount:    amount,
			Actor:     actor,
			Timestamp: g.clock.Now(),
		},
		EnergyDelta:    energy,
		CarbonDelta:    float64(energy) * carbonPerKWh,
		CommunityDelta: community,
		TreePlanted:    tree,
	}
}

// Apply adds the increments of step to impact.
func Apply(impact model.Impact, step Step) model.Impact {
	impact.TotalEnergy += step.EnergyDelta
	impact.CarbonOffset += step.CarbonDelta
	impact.CommunityImpact += step.CommunityDelta
	if step.TreePlanted {
		impact.TreesPlanted++
	}
	return impact
}
