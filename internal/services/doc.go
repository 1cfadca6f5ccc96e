// Package services turns service definitions into live instances.
//
// Each definition names a Type. A Registry maps types to Factory functions
// and exposes itself to the orchestrator as a Loader:
//
//	reg := services.NewRegistry()
//	services.RegisterBuiltins(reg)
//	orch := orchestrator.New(orchestrator.Config{Loader: reg.Loader()})
//
// Built-in types:
//
//   - static: an in-memory service that only records its definition. Useful
//     for grouping placeholders and for dry runs.
//   - exec: runs the definition's Path as a command. The service is loaded
//     when the command exits with status 0.
//
// Definitions without a Type fall back to the registry's default type,
// which is "static" unless changed with SetDefaultType.
//
// All built-in services embed BaseService, which tracks state and reports
// transitions through an optional StateChangeCallback.
package services
