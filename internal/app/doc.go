// Package app provides application bootstrap and lifecycle management for stagehand.
//
// # Architecture Overview
//
//   - Bootstrap (bootstrap.go): logging setup, configuration loading, and the
//     Application type driving one boot.
//   - Configuration (config.go): runtime flags passed in from the command line.
//   - Services (services.go): wiring of the factory registry, discovery,
//     metrics, and the orchestrator.
//   - Modes (modes.go): holding the booted runtime until a signal arrives,
//     readiness notification, and the metrics endpoint.
//
// # Boot Sequence
//
//  1. Load config.yaml from the configuration directory (defaults otherwise)
//  2. Initialize logging from --debug or the logging section
//  3. Collect static definitions from config.yaml followed by the
//     definitions discovered in the discovery directory
//  4. Boot them through the orchestrator
//  5. Notify systemd that the process is ready (no-op outside systemd)
//  6. With --hold, wait for SIGINT or SIGTERM and shut the services down in
//     reverse load order
//
// When a boot fails, whatever loaded before the failure is shut down before
// the error is returned.
package app
