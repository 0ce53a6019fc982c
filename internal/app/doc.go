// Package app wires the application together: logger, configuration loader,
// handler registry, and the build run itself.
package app
