package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fileweb/internal/config"
	"fileweb/internal/logging"
	"fileweb/internal/middleware"
	"fileweb/internal/routes"
	"fileweb/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := runToken(cfg, os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	logger, err := logging.New(logging.ConfigFor(cfg.Logging.Level, cfg.Logging.Development))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := serve(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// runToken prints a signed token. Tokens are only ever minted here, never over HTTP.
func runToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	name := fs.String("name", "fileweb-client", "client name recorded in the token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !middleware.NewInputValidator().ValidateClientName(*name) {
		return fmt.Errorf("invalid client name %q", *name)
	}

	auth, err := services.NewAuthService(services.AuthOptions{
		Secret:      cfg.Auth.Secret,
		TokenExpiry: cfg.Auth.TokenExpiry,
		Logger:      logging.NewNop(),
	})
	if err != nil {
		return err
	}
	token, err := auth.GenerateToken(*name)
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires in %s\n", auth.TokenExpiry())
	return nil
}

func serve(cfg *config.Config, logger *logging.Logger) error {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	sanitizer, err := services.NewSanitizer(cfg.Files.Root)
	if err != nil {
		return err
	}
	if sanitizer.Confined() {
		logger.Info("Confining file access", zap.String("root", sanitizer.Root()))
	}

	hub := services.NewWebSocketHub(logger.Named("ws"))
	hub.Start()
	defer hub.Stop()

	volumes := services.NewVolumeEnumerator(sanitizer.Root(), logger.Named("volumes"))
	usage := services.NewUsageCache(services.NewVolumeUsageReader(volumes, logger.Named("usage")), cfg.Volumes.UsageTTL)

	explorer := services.NewExplorer(services.ExplorerOptions{
		Sanitizer: sanitizer,
		Locations: services.NewLocations(sanitizer.Root()),
		Volumes:   volumes,
		Notifier:  services.MultiNotifier{hub, usage},
		Logger:    logger.Named("explorer"),
	})

	var auth *services.AuthService
	if cfg.Auth.Enabled {
		auth, err = services.NewAuthService(services.AuthOptions{
			Secret:      cfg.Auth.Secret,
			TokenExpiry: cfg.Auth.TokenExpiry,
			Logger:      logger.Named("auth"),
		})
		if err != nil {
			return err
		}
		logger.Info("Token authentication enabled")
	}

	router := routes.NewRouter(routes.Dependencies{
		Config:   cfg,
		Explorer: explorer,
		Usage:    usage,
		Hub:      hub,
		Auth:     auth,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr), zap.Bool("tls", cfg.TLSEnabled()))
		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
