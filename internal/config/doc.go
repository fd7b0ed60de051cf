// Package config provides configuration types and loading for the
// edge gateway.
//
// This package defines the configuration model, YAML loading with
// environment variable substitution, validation, and file watching for
// hot-reload support.
//
// # Features
//
//   - YAML configuration file loading
//   - Environment variable substitution with ${VAR:-default} syntax
//   - Configuration validation with detailed error reporting
//   - File watching for configuration hot-reload
//   - Declarative routing rules with capture-based path rewriting
//
// # Configuration Loading
//
// Load configuration from a YAML file:
//
//	cfg, err := config.LoadConfig("gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # File Watching
//
// Watch for configuration changes:
//
//	watcher, err := config.NewWatcher(configPath, onChange)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	watcher.Start(ctx)
package config
