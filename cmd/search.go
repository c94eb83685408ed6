package cmd

import (
	"fmt"
	"log"
	"strings"

	"device-locator/core/config"
	"device-locator/core/logger"

	"device-locator/feature/geocode"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// searchCmd queries the address providers from the terminal, mostly for
// checking provider credentials without starting the server.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search an address through the configured providers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&logger.Config{Level: "warn", Format: "console"})
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		svc := geocode.NewService(logg,
			geocode.NewNaverClient(cfg.Search),
			geocode.NewKakaoClient(cfg.Search),
		)

		results := svc.SearchAll(cmd.Context(), query)
		if len(results) == 0 {
			fmt.Println("no results")
			return nil
		}
		for _, r := range results {
			addr := r.RoadAddress
			if addr == "" {
				addr = r.Address
			}
			fmt.Printf("%-30s %s (%.5f, %.5f)\n", r.Title, addr, r.Y, r.X)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(searchCmd)
}
