package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinecircle/cinecircle/internal/auth"
	"github.com/cinecircle/cinecircle/internal/cineboards"
	"github.com/cinecircle/cinecircle/internal/config"
	"github.com/cinecircle/cinecircle/internal/database"
	"github.com/cinecircle/cinecircle/internal/identity"
	"github.com/cinecircle/cinecircle/internal/logging"
	"github.com/cinecircle/cinecircle/internal/server"
	"github.com/cinecircle/cinecircle/internal/users"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const version = "0.1.0"

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "cinecircle-api",
		Short: "CineCircle identity gateway and API server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().Int("token-ttl-minutes", defaults.GetInt("auth.token_ttl_minutes"), "Session token TTL in minutes")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("clerk-api-url", defaults.GetString("clerk.api_url"), "Clerk API base URL")
	cmd.PersistentFlags().String("clerk-secret-key", "", "Clerk secret key (empty enables the fixture provider)")
	cmd.PersistentFlags().String("signing-secret", "", "Session token signing secret (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "auth.token_ttl_minutes", "token-ttl-minutes")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "clerk.api_url", "clerk-api-url")
	bindFlag(cmd, "clerk.secret_key", "clerk-secret-key")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	userStore, err := users.NewGormStore(users.GormStoreConfig{Database: db})
	if err != nil {
		return err
	}

	provider, err := buildProvider(appConfig, logger)
	if err != nil {
		return err
	}

	tokenIssuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "cinecircle-auth",
		Audience:      "cinecircle-api",
		TokenTTL:      appConfig.TokenTTL,
	})
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceConfig{
		Provider: provider,
		Store:    userStore,
		Tokens:   tokenIssuer,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	boardsService, err := cineboards.NewService(cineboards.ServiceConfig{
		Database: db,
		Users:    userStore,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		AuthService:   authService,
		BoardsService: boardsService,
		Logger:        logger,
		Version:       version,
		StartedAt:     time.Now(),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func buildProvider(appConfig config.AppConfig, logger *zap.Logger) (identity.Provider, error) {
	if appConfig.ClerkSecretKey == "" {
		logger.Warn("no clerk secret key configured, using fixture identity provider")
		return identity.NewDevProvider(), nil
	}
	return identity.NewHTTPProvider(identity.HTTPProviderConfig{
		BaseURL:   appConfig.ClerkAPIURL,
		SecretKey: appConfig.ClerkSecretKey,
		Logger:    logger,
	})
}
