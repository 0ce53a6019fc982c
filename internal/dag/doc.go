// Package dag builds and validates the target dependency graph the executor
// walks. Nodes are targets, edges point from a dependency to its dependents,
// and per-node atomic counters let the executor release ready work without
// global coordination.
package dag
