package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogsite/internal/cache"
	"github.com/blogsite/internal/config"
	"github.com/blogsite/internal/db"
	"github.com/blogsite/internal/handler"
	"github.com/blogsite/internal/mail"
	"github.com/blogsite/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	listenAddrFlag  = "listen-addr"
	shutdownTimeout = 10 * time.Second
)

var serveFlags = map[string]cobraflags.Flag{
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: databaseURLHelp,
	},
	listenAddrFlag: &cobraflags.StringFlag{
		Name:  listenAddrFlag,
		Value: "",
		Usage: "Address to listen on (overrides LISTEN_ADDR and PORT)",
	},
}

func newServeCommand(cfg config.AppConfig, log *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Run the blog web server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.DatabaseURL = databaseURL(cfg, serveFlags[databaseURLFlag].GetString())
			if addr := serveFlags[listenAddrFlag].GetString(); addr != "" {
				cfg.ListenAddr = addr
			}
			return runServe(cmd.Context(), cfg, log)
		},
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func runServe(ctx context.Context, cfg config.AppConfig, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	secret, err := sessionSecret(cfg, log)
	if err != nil {
		return err
	}

	gdb, err := db.Open(cfg.DatabaseURL, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close(gdb)

	renderCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer renderCache.Close()
	if err := renderCache.Ping(ctx); err != nil {
		log.Warn("render cache unavailable, rendering without it", slog.String("error", err.Error()))
	}

	api := handler.NewAPI(db.NewStore(gdb), handler.Options{
		Mailer:  newMailSender(cfg.Mail, log),
		Mailbox: cfg.Mail.Sender,
		Cache:   renderCache,
		Logger:  log,
	})
	engine := router.SetupRouter(api, router.Options{
		SessionSecret: secret,
		CookieSecure:  cfg.CookieSecure,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to run server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

var errMissingSessionSecret = errors.New("SECRET_KEY must be set when GIN_MODE is release")

// sessionSecret returns the key that signs session cookies. Release mode refuses
// to run without SECRET_KEY; other modes get a random key that lives as long as
// the process, so sessions do not survive a restart.
func sessionSecret(cfg config.AppConfig, log *slog.Logger) (string, error) {
	if cfg.SessionSecret != "" {
		return cfg.SessionSecret, nil
	}
	if cfg.GinMode == gin.ReleaseMode {
		return "", errMissingSessionSecret
	}
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return "", errors.New("generate session secret")
	}
	log.Warn("SECRET_KEY not set, using a random per-process session key", slog.String("mode", cfg.GinMode))
	return string(key), nil
}

// newMailSender picks Resend when an API key is configured and SMTP otherwise.
func newMailSender(cfg config.MailConfig, log *slog.Logger) mail.Sender {
	if cfg.ResendAPIKey != "" {
		log.Info("contact mail via resend")
		return mail.NewResendSender(cfg.ResendAPIKey, cfg.Sender)
	}
	log.Info("contact mail via smtp", slog.String("host", cfg.SMTPHost), slog.Int("port", cfg.SMTPPort))
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.Sender,
		Password: cfg.Password,
	})
}
