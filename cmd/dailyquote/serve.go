package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/go-daily-quote/docs"
	"github.com/tbourn/go-daily-quote/internal/config"
	"github.com/tbourn/go-daily-quote/internal/events"
	"github.com/tbourn/go-daily-quote/internal/hashing"
	httpapi "github.com/tbourn/go-daily-quote/internal/http"
	"github.com/tbourn/go-daily-quote/internal/observability"
	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/repo"
	"github.com/tbourn/go-daily-quote/internal/services"
	"github.com/tbourn/go-daily-quote/internal/verify"
)

const (
	shutdownGrace = 10 * time.Second
	purgeEvery    = time.Hour
)

// serve runs the API until SIGINT/SIGTERM.
func serve(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := repo.Close(db); err != nil {
			log.Warn().Err(err).Msg("db close")
		}
	}()
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store, err := (&quotes.Loader{}).Load(ctx, cfg.QuotesSource)
	if err != nil {
		return err
	}
	sel, err := quotes.NewSelector(cfg.SiteTZ)
	if err != nil {
		return err
	}
	log.Info().Int("quotes", store.Len()).Str("source", cfg.QuotesSource).Str("tz", cfg.SiteTZ).Msg("quotes loaded")

	pub := events.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	defer pub.Close()

	var verifier verify.Verifier = verify.NewTurnstile(cfg.Turnstile.Secret, cfg.Turnstile.VerifyURL, cfg.Turnstile.Timeout)
	if cfg.Turnstile.Bypass {
		log.Warn().Msg("TURNSTILE_BYPASS is set: every challenge token is accepted")
		verifier = verify.Static(true)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	deps := httpapi.Deps{
		DB:       db,
		Quotes:   store,
		Selector: sel,
		Hasher:   hashing.NewHasher(cfg.HashSalt),
		Verifier: verifier,
		Events:   pub,
	}
	idem := httpapi.RegisterRoutes(r, deps, cfg)
	go purgeLoop(ctx, idem, purgeEvery)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(sctx)
}

// purgeLoop drops expired idempotency records every interval until ctx ends.
func purgeLoop(ctx context.Context, idem *services.IdempotencyService, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := idem.Purge(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("rows", n).Msg("idempotency records purged")
			}
		}
	}
}
