// Package pipeline provides the core feasibility-check pipeline for Phylotime.
//
// This package implements the complete load → build → order pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode the input bundle (trees, reconciliation, frequencies)
//  2. Build: Construct the temporal constraint graph from the reconciliation
//  3. Order: Search for a cycle-free total order of the internal nodes
//
// An infeasible reconciliation is a successful pipeline run whose result
// reports Feasible=false. Only malformed input or I/O failures are errors.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{InputPath: "recon.json"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Check.Feasible)
package pipeline

import (
	"time"

	"github.com/cophylo/phylotime/pkg/errors"
	"github.com/cophylo/phylotime/pkg/graph"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the feasibility pipeline.
// Exactly one of InputPath and Input must be set.
type Options struct {
	// InputPath names a JSON input file to load. CLI entry point.
	InputPath string `json:"input_path,omitempty"`

	// Input is an already-decoded input bundle. API entry point.
	Input *graph.Input `json:"input,omitempty"`

	// Refresh bypasses the cache and recomputes the result.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks that the options name exactly one input source.
func (o *Options) Validate() error {
	if o.InputPath == "" && o.Input == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input path or input bundle is required")
	}
	if o.InputPath != "" && o.Input != nil {
		return errors.New(errors.ErrCodeInvalidInput, "input path and input bundle are mutually exclusive")
	}
	return nil
}

// source names the input origin for logs and hooks.
func (o *Options) source() string {
	if o.InputPath != "" {
		return o.InputPath
	}
	return "inline"
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Input is the decoded input bundle the check ran on.
	Input graph.Input

	// Check is the feasibility verdict, including the constraint graph
	// and, when feasible, a valid total order.
	Check graph.Result

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MappingCount int
	NodeCount    int
	EdgeCount    int
	LoadTime     time.Duration
	BuildTime    time.Duration
	OrderTime    time.Duration
}

// CacheInfo tracks the cache interaction of a run.
type CacheInfo struct {
	Hit bool   // Whether the result came from cache
	Key string // Cache key derived from the canonical input
}
