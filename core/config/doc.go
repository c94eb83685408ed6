// Package config provides configuration management for the Device Locator.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, default map provider, CORS)
//   - Database: MySQL connection details for the remote store
//   - Storage: S3/MinIO or file-based snapshot store settings
//   - Log: Logging level and format
//   - Maps: Map provider SDK keys and initial viewport
//   - Search: Address search provider credentials
//   - Sync: Cloud sync toggle
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
