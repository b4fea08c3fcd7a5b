package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cophylo/phylotime/pkg/cache"
	"github.com/cophylo/phylotime/pkg/errors"
	"github.com/cophylo/phylotime/pkg/graph"
	"github.com/cophylo/phylotime/pkg/observability"
	"github.com/cophylo/phylotime/pkg/temporal"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete load → build → order pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.source())
	in, err := r.load(opts)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.source(), len(in.Reconciliation), result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}
	result.Input = in
	result.Stats.MappingCount = len(in.Reconciliation)

	// Cache key from the canonical input form, so key order and entry
	// order in the source file don't fragment the cache.
	canonical, err := in.Canonical()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "canonicalize input")
	}
	key := cache.CheckKey(canonical)
	result.CacheInfo.Key = key

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.UnmarshalResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "check")
				result.Check = cached
				result.CacheInfo.Hit = true
				r.Logger.Debug("cache hit", "key", key)
				return result, nil
			}
			// Corrupt entry: drop it and recompute.
			_ = r.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "check")
	}

	host, parasite, err := in.Trees()
	if err != nil {
		return nil, err
	}
	rec, err := in.DecodeReconciliation()
	if err != nil {
		return nil, err
	}
	if _, err := in.DecodeFrequencies(); err != nil {
		return nil, err
	}

	// Stage 2: Build
	buildStart := time.Now()
	nodeCount := len(host.InternalNodes()) + len(parasite.InternalNodes())
	observability.Pipeline().OnBuildStart(ctx, nodeCount)
	g, err := temporal.Build(host, parasite, rec)
	result.Stats.BuildTime = time.Since(buildStart)
	observability.Pipeline().OnBuildComplete(ctx, len(g), edgeCount(g), result.Stats.BuildTime, err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidReconciliation, err, "build constraint graph")
	}
	result.Stats.NodeCount = len(g)
	result.Stats.EdgeCount = edgeCount(g)
	result.Check.Graph = graph.FromConstraints(g)

	r.Logger.Info("built constraint graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.BuildTime)

	// Stage 3: Order
	orderStart := time.Now()
	observability.Pipeline().OnOrderStart(ctx, len(g))
	order, err := g.Order()
	result.Stats.OrderTime = time.Since(orderStart)
	observability.Pipeline().OnOrderComplete(ctx, err == nil, result.Stats.OrderTime, err)
	switch {
	case err == nil:
		result.Check.Feasible = true
		result.Check.Order = graph.FromOrdering(order)
	case stderrors.Is(err, temporal.ErrCycle):
		result.Check.Feasible = false
		result.Check.Reason = err.Error()
	default:
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "order constraint graph")
	}

	r.Logger.Info("checked feasibility",
		"feasible", result.Check.Feasible,
		"duration", result.Stats.OrderTime)

	// Cache the verdict. Infeasible results are cached too: they are as
	// deterministic as feasible ones.
	if data, err := graph.MarshalResult(result.Check); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err == nil {
			observability.Cache().OnCacheSet(ctx, "check", len(data))
		}
	}

	return result, nil
}

// load resolves the input bundle from the configured source.
func (r *Runner) load(opts Options) (graph.Input, error) {
	if opts.Input != nil {
		return *opts.Input, nil
	}
	in, err := graph.ReadInputFile(opts.InputPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return graph.Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "load input")
		}
		return graph.Input{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "load input")
	}
	return in, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func edgeCount(g temporal.Graph) int {
	n := 0
	for _, succs := range g {
		n += len(succs)
	}
	return n
}
