package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"device-locator/core/config"
	"device-locator/core/database"
	"device-locator/core/loader"
	"device-locator/core/logger"
	"device-locator/core/middleware/rayid"
	"device-locator/core/persist"

	"device-locator/feature/devices"
	"device-locator/feature/geocode"
	"device-locator/feature/maps"
	"device-locator/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sessionSweepInterval is how often idle map sessions are collected.
const sessionSweepInterval = 5 * time.Minute

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the device locator server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Remote Store (Optional)
		// Sync degrades to disabled when the remote store is down; local
		// state stays authoritative.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional remote store connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to remote store", zap.String("database", cfg.Database.Name))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Snapshot Store
		store, err := persist.New(cmd.Context(), cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create snapshot store", zap.Error(err))
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		deviceFeature := devices.NewFeature(store, logg)
		if err := deviceFeature.Service().Load(cmd.Context()); err != nil {
			logg.Fatal("Failed to load device collections", zap.Error(err))
		}
		mapFeature := maps.NewFeature(cfg, deviceFeature.Service(), logg)

		mgr.Register(deviceFeature)
		mgr.Register(mapFeature)
		mgr.Register(sync.NewFeature(db, deviceFeature.Service(), cfg.Sync.Enabled, logg))
		mgr.Register(geocode.NewFeature(cfg.Search, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. CORS (the browser shim may be served from anywhere)
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.CORSOrigins,
		}))

		// 3. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Periodic map session sweep
		sweepCtx, stopSweep := context.WithCancel(context.Background())
		go func() {
			ticker := time.NewTicker(sessionSweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-sweepCtx.Done():
					return
				case <-ticker.C:
					if n := mapFeature.Manager().Sweep(); n > 0 {
						logg.Info("Swept idle map sessions", zap.Int("count", n))
					}
				}
			}
		}()

		// 9. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("provider", cfg.Server.Provider),
			)
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		stopSweep()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
