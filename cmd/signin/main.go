package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/auth"
	"github.com/goodnatureofminers/greenchain-backend/internal/metrics"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	URL      string        `long:"url" env:"SIGNIN_URL" description:"sign-in service base URL" required:"true"`
	Email    string        `long:"email" env:"SIGNIN_EMAIL" description:"account email" required:"true"`
	Password string        `long:"password" env:"SIGNIN_PASSWORD" description:"account password" required:"true"`
	Timeout  time.Duration `long:"timeout" env:"SIGNIN_TIMEOUT" description:"request timeout" default:"10s"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	redirect, err := run(ctx, cfg, logger)
	if err != nil {
		var signInErr *auth.SignInError
		if errors.As(err, &signInErr) {
			fmt.Fprintln(os.Stderr, signInErr.Message)
			os.Exit(1)
		}
		logger.Fatal("sign in failed", zap.Error(err))
	}
	fmt.Println(redirect)
}

func run(ctx context.Context, cfg config, logger *zap.Logger) (string, error) {
	client, err := auth.NewClient(auth.Config{BaseURL: cfg.URL, Timeout: cfg.Timeout}, metrics.NewAuth(), logger)
	if err != nil {
		return "", fmt.Errorf("init auth client: %w", err)
	}
	defer client.Close()

	res, err := client.SignIn(ctx, auth.Credentials{Email: cfg.Email, Password: cfg.Password})
	if err != nil {
		return "", err
	}
	return res.Redirect, nil
}
