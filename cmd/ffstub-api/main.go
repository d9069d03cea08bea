package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fasterfoods/fasterfoods-go/internal/logging"
	"github.com/fasterfoods/fasterfoods-go/internal/stub"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ffstub-api",
		Short: "FasterFoods development API server",
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

func applyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix("FASTERFOODS_STUB")
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", ":8080")
	configViper.SetDefault("database.path", "fasterfoods-stub.db")
	configViper.SetDefault("auth.signing_secret", "")
	configViper.SetDefault("token.ttl_hours", 12)
	configViper.SetDefault("log.level", "info")
}

func setupFlags(cmd *cobra.Command) {
	applyDefaults(viper.GetViper())
	defaults := viper.New()
	applyDefaults(defaults)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("signing-secret", "", "Token signing secret (overrides env)")
	cmd.PersistentFlags().Int("token-ttl-hours", defaults.GetInt("token.ttl_hours"), "Dev token TTL in hours")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
	bindFlag(cmd, "token.ttl_hours", "token-ttl-hours")
	bindFlag(cmd, "log.level", "log-level")
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
	signingSecret := viper.GetString("auth.signing_secret")
	if strings.TrimSpace(signingSecret) == "" {
		return errors.New("auth.signing_secret is required")
	}

	logger, err := logging.NewLogger(viper.GetString("log.level"))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := stub.OpenStorage(viper.GetString("database.path"), logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	tokenManager := stub.NewTokenIssuer(stub.TokenIssuerConfig{
		SigningSecret: []byte(signingSecret),
		Issuer:        "fasterfoods-stub",
		Audience:      "fasterfoods-client",
		TokenTTL:      time.Duration(viper.GetInt("token.ttl_hours")) * time.Hour,
	})

	handler, err := stub.NewHTTPHandler(stub.Dependencies{
		DB:           db,
		TokenManager: tokenManager,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	address := viper.GetString("http.address")
	httpServer := &http.Server{
		Addr:    address,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", address))
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
