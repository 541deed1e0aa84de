package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		ObserveOperation(op string, amount decimal.Decimal, err error, started time.Time)
	}
)
