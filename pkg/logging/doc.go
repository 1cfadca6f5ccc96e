// Package logging provides structured logging for stagehand.
//
// It is built on Go's log/slog package and offers two ways to log:
//
//   - Package-level helpers (Debug, Info, Warn, Error) tagged with a subsystem
//     name, used by the CLI and application bootstrap.
//   - A Sink interface that receives structured Records. The boot core
//     (dependency grouping, group execution) only ever logs through a Sink that
//     is passed in by its caller, never through package state.
//
// # Initialization
//
//	logging.Init(logging.LevelInfo, logging.FormatJSON, os.Stderr)
//
//	logging.Info("Bootstrap", "Loaded configuration from %s", path)
//	logging.Error("Bootstrap", err, "Boot failed")
//
// # Sinks
//
// DefaultSink forwards records to the logger configured by Init, turning the
// record fields into slog attributes:
//
//	sink := logging.DefaultSink()
//	sink.Emit(logging.Record{
//	    Level:   logging.LevelInfo,
//	    Source:  "Executor",
//	    Message: "group completed",
//	    Fields:  logging.Fields{"succeeded": 3, "failed": 0},
//	})
//
// Recorder keeps records in memory and is what tests use to assert on emitted
// diagnostics. Discard drops everything.
//
// # Subsystems
//
//   - Bootstrap: configuration loading and application startup
//   - Config: configuration file handling
//   - Discovery: service definition scanning and cache invalidation
//   - Orchestrator: boot state transitions
//   - Executor: per-group fan-out and failure policy
//   - Services: built-in service factories
package logging
