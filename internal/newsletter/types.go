package newsletter

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		ObserveSignup(err error)
		ObserveBatch(size int, err error, started time.Time)
	}
)
