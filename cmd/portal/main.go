package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/cares-session/authclient"
	"github.com/jrsteele09/cares-session/internal/config"
	"github.com/jrsteele09/cares-session/server"
	"github.com/jrsteele09/cares-session/session"
	"github.com/jrsteele09/cares-session/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.New()
	configureLogging(c.GetEnv())

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running portal")
	}
	log.Info().Msg("Portal stopped")
}

func configureLogging(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	fileStore, err := storage.NewFileStore(c.GetDataFolder())
	if err != nil {
		return fmt.Errorf("storage.NewFileStore: %w", err)
	}
	log.Info().Str("path", fileStore.Path()).Msg("Session storage")
	log.Info().Stringer("allowed_origins", c.GetAllowedOrigins()).Msg("CORS")

	sessions, err := session.New(
		fileStore,
		authclient.NewHTTPAuthenticator(c.GetAPIBaseURL()),
		session.WithLoginTimeout(c.GetLoginTimeout()),
	)
	if err != nil {
		return fmt.Errorf("session.New: %w", err)
	}
	defer sessions.Close()

	handler, err := server.New(c, sessions)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- listenAndServe(srv)
	}()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Portal listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
