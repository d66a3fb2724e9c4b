// Package harness runs conformance scenarios against the log repository.
//
// A scenario is a YAML file naming a repository configuration (addressing
// scheme, line format, backend), a list of write and read steps, and
// assertions over the result. Each run gets a fresh backend: a temporary
// directory for the os backend, an in-memory database for sqlite.
//
// Timestamps come from a step clock and default correlation ids from a fixed
// generator, so the trace of a scenario is byte-identical across runs and can
// be compared against a golden file:
//
//	go test ./internal/harness -update
//
// Example scenario:
//
//	name: flat_process_model
//	description: Process model and flow node entries share one file
//	addressing: flat
//	format: semicolon
//	steps:
//	  - write: {correlation: c1, process_model: model-A, message: started}
//	  - read: {process_model: model-A}
//	assertions:
//	  - {type: entry_count, process_model: model-A, count: 1}
package harness
