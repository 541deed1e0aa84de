package session

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		ObserveOpened(err error)
		ObserveClosed(reason string)
	}
)
