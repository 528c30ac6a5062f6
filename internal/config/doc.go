// Package config provides centralized configuration management for the
// analytics dashboard service.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. .env file in the working directory (loaded into the environment)
//  3. YAML configuration file (config.yaml or DASH_CONFIG_FILE)
//  4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DASH_<SECTION>_<FIELD>:
//
//	DASH_SERVER_PORT=8080
//	DASH_REPORTS_BASE_URL=https://erp.example.com/api
//	DASH_REPORTS_TOKEN=...
//	DASH_EXPORT_PRINT_ROWS_PER_SECTION=50
//	DASH_ARCHIVE_ENABLED=true
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests use config.Default(), which needs no environment.
package config
