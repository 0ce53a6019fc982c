// Package config defines the format-agnostic configuration model the engine
// consumes, decoupled from the HCL syntax it is loaded from.
package config
