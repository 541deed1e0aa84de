package transport

import (
	"context"

	"github.com/goodnatureofminers/greenchain-backend/internal/auth"
	"github.com/goodnatureofminers/greenchain-backend/internal/session"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	SessionStore interface {
		Create(email string) (*session.Session, error)
		Get(id string) (*session.Session, error)
		Delete(id string) error
	}
	Authenticator interface {
		SignIn(ctx context.Context, creds auth.Credentials) (*auth.Result, error)
	}
	Newsletter interface {
		Subscribe(ctx context.Context, email string) error
	}
)
