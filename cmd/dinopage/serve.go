package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dinopage/internal/db"
	"github.com/dinopage/internal/handler"
	"github.com/dinopage/internal/router"
	"github.com/dinopage/internal/service"
	"github.com/dinopage/internal/vercel"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address, overrides server.listen_addr")
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	gin.SetMode(appConfig.Server.GinMode)

	if err := openDatabase(); err != nil {
		return err
	}
	defer func() {
		if err := db.Close(db.DB); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if created, err := db.EnsureUser(appConfig.Admin.Email, appConfig.Admin.Password, appConfig.Admin.Name); err != nil {
		return err
	} else if created {
		log.Info().Str("email", appConfig.Admin.Email).Msg("created initial admin user")
	}

	var domains service.DomainProvider
	if appConfig.Vercel.Configured() {
		domains = vercel.New(appConfig.Vercel)
	} else {
		log.Warn().Msg("vercel credentials missing, custom domain API disabled")
	}

	api := handler.NewAPI(db.DB, handler.Options{
		UploadDir:         appConfig.Upload.Dir,
		UploadURL:         appConfig.Upload.URLPath,
		BaseURL:           appConfig.Site.BaseURL,
		SiteTTL:           appConfig.Cache.SiteTTL,
		AllowRegistration: appConfig.Auth.AllowRegistration,
		LoginMaxAttempts:  appConfig.Auth.LoginMaxAttempts,
		LoginWindow:       appConfig.Auth.LoginWindow,
		Domains:           domains,
	})
	defer api.Close()

	r := router.SetupRouter(api, router.Options{
		SessionSecret: appConfig.Session.Secret,
		SessionMaxAge: appConfig.Session.MaxAge,
		CookieSecure:  appConfig.Server.CookieSecure,
		UploadDir:     appConfig.Upload.Dir,
		UploadURL:     appConfig.Upload.URLPath,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              appConfig.Server.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("mode", appConfig.Server.GinMode).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
