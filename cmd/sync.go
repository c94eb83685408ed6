package cmd

import (
	"fmt"
	"log"

	"device-locator/core/config"
	"device-locator/core/database"
	"device-locator/core/logger"
	"device-locator/core/persist"

	"device-locator/feature/devices"
	"device-locator/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd runs one sync operation against the remote store and exits.
var syncCmd = &cobra.Command{
	Use:   "sync [upload|download|full]",
	Short: "Run a one-shot sync against the remote store",
	Long: `Loads the local device collections, runs the chosen sync operation
against the remote store, and exits. "full" uploads then downloads.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"upload", "download", "full"},
	RunE: func(cmd *cobra.Command, args []string) error {
		operation := "full"
		if len(args) > 0 {
			operation = args[0]
		}

		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		store, err := persist.New(cmd.Context(), cfg.Storage)
		if err != nil {
			return fmt.Errorf("snapshot store: %w", err)
		}

		deviceFeature := devices.NewFeature(store, logg)
		if err := deviceFeature.Service().Load(cmd.Context()); err != nil {
			return fmt.Errorf("load device collections: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("remote store: %w", err)
		}

		coordinator := sync.NewCoordinator(db, deviceFeature.Service(), cfg.Sync.Enabled, logg)

		var res sync.Result
		switch operation {
		case "upload":
			res, err = coordinator.Upload(cmd.Context())
		case "download":
			res, err = coordinator.Download(cmd.Context())
		case "full":
			res, err = coordinator.Sync(cmd.Context())
		default:
			return fmt.Errorf("unknown operation %q", operation)
		}
		if err != nil {
			return err
		}

		logg.Info("Sync operation finished",
			zap.String("operation", res.Operation),
			zap.Int("devices", res.Devices),
			zap.Int("folders", res.Folders),
			zap.Int("schema_version", int(res.Schema)),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
