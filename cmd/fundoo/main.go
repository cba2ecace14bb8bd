package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/usefundoo/fundoo/internal/profile"
	"github.com/usefundoo/fundoo/internal/version"
	"github.com/usefundoo/fundoo/server"
	"github.com/usefundoo/fundoo/store"
	"github.com/usefundoo/fundoo/store/db"
)

const greetingBanner = `
Fundoo - notes, labels and reminders.
`

var rootCmd = &cobra.Command{
	Use:   "fundoo",
	Short: "A note-taking service with labels, sharing and reminders",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		instanceProfile := &profile.Profile{
			Mode:          viper.GetString("mode"),
			Addr:          viper.GetString("addr"),
			Port:          viper.GetInt("port"),
			Data:          viper.GetString("data"),
			Driver:        viper.GetString("driver"),
			DSN:           viper.GetString("dsn"),
			Secret:        viper.GetString("secret"),
			RedisAddr:     viper.GetString("redis-addr"),
			RedisPassword: viper.GetString("redis-password"),
			RedisDB:       viper.GetInt("redis-db"),
			SMTPHost:      viper.GetString("smtp-host"),
			SMTPPort:      viper.GetInt("smtp-port"),
			SMTPUsername:  viper.GetString("smtp-username"),
			SMTPPassword:  viper.GetString("smtp-password"),
			SMTPFrom:      viper.GetString("smtp-from"),
			Version:       version.GetCurrentVersion(viper.GetString("mode")),
		}
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("failed to validate profile: %w", err)
		}

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			slog.Info("received signal, shutting down", "signal", sig.String())
			cancel()
		}()

		fmt.Print(greetingBanner, "\n")
		fmt.Printf("Version %s has been started on port %d\n", instanceProfile.Version, instanceProfile.Port)

		if err := s.Start(ctx); err != nil {
			slog.Error("server exited with error", "err", err)
		}
		s.Shutdown(context.Background())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, can be "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("secret", "", "secret used to sign access tokens")
	rootCmd.PersistentFlags().String("redis-addr", "", "redis address enabling the shared cache backend")
	rootCmd.PersistentFlags().String("redis-password", "", "redis password")
	rootCmd.PersistentFlags().Int("redis-db", 0, "redis database number")
	rootCmd.PersistentFlags().String("smtp-host", "", "smtp host for outgoing mail")
	rootCmd.PersistentFlags().Int("smtp-port", 587, "smtp port for outgoing mail")
	rootCmd.PersistentFlags().String("smtp-username", "", "smtp username")
	rootCmd.PersistentFlags().String("smtp-password", "", "smtp password")
	rootCmd.PersistentFlags().String("smtp-from", "", "from address for outgoing mail")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)
	viper.SetEnvPrefix("fundoo")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
