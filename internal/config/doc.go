// Package config provides configuration management for stagehand.
//
// Configuration is loaded from a single directory. The default configuration
// directory is ~/.config/stagehand, but users can specify a custom directory
// using the --config-path flag.
//
// # Configuration Directory
//
//   - config.yaml (main configuration file, optional)
//   - services.d/ (discovered service definitions, one or more YAML files)
//
// A missing config.yaml is not an error: the defaults below are used.
//
// # Example
//
//	services:
//	  - name: logger
//	    type: static
//	    critical: true
//	  - name: database
//	    type: exec
//	    path: /usr/libexec/stagehand/db-ready
//	    dependencies: [logger]
//	    critical: true
//	discovery:
//	  path: services.d
//	  cacheTTL: 5m
//	  watch: true
//	boot:
//	  maxConcurrency: 8
//	  groupTimeout: 30s
//	  averageLoadTime: 50ms
//	logging:
//	  level: info
//	  format: text
//	metrics:
//	  listenAddress: 127.0.0.1:9464
//
// Relative discovery paths are resolved against the configuration directory.
package config
