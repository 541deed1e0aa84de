package feed

import (
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Random is the draw source of the simulation. *rand.Rand from math/rand/v2 satisfies it.
	Random interface {
		IntN(n int) int
		Float64() float64
	}
	Metrics interface {
		ObserveTick(kind model.TxKind, energyDelta int, started time.Time)
		AddViewers(delta int)
	}
)
