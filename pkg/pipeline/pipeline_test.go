package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cophylo/phylotime/pkg/cache"
	"github.com/cophylo/phylotime/pkg/errors"
	"github.com/cophylo/phylotime/pkg/graph"
)

func hostTable() graph.TreeTable {
	return graph.TreeTable{
		"hTop":  {Top: "Top", Bottom: "m0", Left: "m0:m1", Right: "m0:m2"},
		"m0:m1": {Top: "m0", Bottom: "m1"},
		"m0:m2": {Top: "m0", Bottom: "m2", Left: "m2:m3", Right: "m2:m4"},
		"m2:m3": {Top: "m2", Bottom: "m3"},
		"m2:m4": {Top: "m2", Bottom: "m4"},
	}
}

func parasiteTable() graph.TreeTable {
	return graph.TreeTable{
		"pTop":  {Top: "Top", Bottom: "n0", Left: "n0:n1", Right: "n0:n2"},
		"n0:n1": {Top: "n0", Bottom: "n1"},
		"n0:n2": {Top: "n0", Bottom: "n2", Left: "n2:n3", Right: "n2:n4"},
		"n2:n3": {Top: "n2", Bottom: "n3"},
		"n2:n4": {Top: "n2", Bottom: "n4"},
	}
}

func pair(parasite, host string) *graph.Pair {
	return &graph.Pair{Parasite: parasite, Host: host}
}

// feasibleInput places every parasite node onto m4 by duplication; a valid
// total order exists.
func feasibleInput() *graph.Input {
	return &graph.Input{
		HostTree:     hostTable(),
		ParasiteTree: parasiteTable(),
		Reconciliation: []graph.MappingEvents{
			{Parasite: "n0", Host: "m4", Events: []graph.Event{
				{Kind: "D", Left: pair("n1", "m4"), Right: pair("n2", "m4")},
			}},
			{Parasite: "n1", Host: "m4", Events: []graph.Event{{Kind: "C"}}},
			{Parasite: "n2", Host: "m4", Events: []graph.Event{
				{Kind: "D", Left: pair("n3", "m4"), Right: pair("n4", "m4")},
			}},
			{Parasite: "n3", Host: "m4", Events: []graph.Event{{Kind: "C"}}},
			{Parasite: "n4", Host: "m4", Events: []graph.Event{{Kind: "C"}}},
		},
	}
}

// infeasibleInput transfers n2 onto m4 while n0 stays on m1, forcing
// m2 before n0 and n2 before m2 at once.
func infeasibleInput() *graph.Input {
	return &graph.Input{
		HostTree:     hostTable(),
		ParasiteTree: parasiteTable(),
		Reconciliation: []graph.MappingEvents{
			{Parasite: "n0", Host: "m1", Events: []graph.Event{
				{Kind: "T", Left: pair("n1", "m1"), Right: pair("n2", "m4")},
			}},
			{Parasite: "n2", Host: "m2", Events: []graph.Event{
				{Kind: "D", Left: pair("n3", "m2"), Right: pair("n4", "m2")},
			}},
		},
	}
}

func TestOptionsValidate(t *testing.T) {
	var o Options
	require.Error(t, o.Validate(), "empty options must be rejected")

	o = Options{InputPath: "x.json", Input: feasibleInput()}
	require.Error(t, o.Validate(), "two input sources must be rejected")

	o = Options{Input: feasibleInput()}
	require.NoError(t, o.Validate())
}

func TestRunnerFeasible(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil)
	defer r.Close()

	res, err := r.Execute(t.Context(), Options{Input: feasibleInput()})
	require.NoError(t, err)

	assert.True(t, res.Check.Feasible)
	assert.Empty(t, res.Check.Reason)
	assert.Len(t, res.Check.Order, 4, "four internal nodes get positions")
	assert.Equal(t, 4, res.Stats.NodeCount)
	assert.Equal(t, 5, res.Stats.MappingCount)
	assert.False(t, res.CacheInfo.Hit)
	assert.Contains(t, res.CacheInfo.Key, "check:")

	// Positions form 1..N and m2 precedes n0 (host parent rule).
	positions := map[string]int{}
	for _, on := range res.Check.Order {
		positions[on.Origin+"/"+on.Name] = on.Position
	}
	assert.Less(t, positions["host/m2"], positions["parasite/n0"])
}

func TestRunnerInfeasible(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	res, err := r.Execute(t.Context(), Options{Input: infeasibleInput()})
	require.NoError(t, err, "infeasibility is a verdict, not an error")

	assert.False(t, res.Check.Feasible)
	assert.Empty(t, res.Check.Order)
	assert.NotEmpty(t, res.Check.Reason)
	assert.NotEmpty(t, res.Check.Graph.Nodes)
}

func TestRunnerCacheRoundTrip(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil)
	defer r.Close()

	first, err := r.Execute(t.Context(), Options{Input: feasibleInput()})
	require.NoError(t, err)
	require.False(t, first.CacheInfo.Hit)

	second, err := r.Execute(t.Context(), Options{Input: feasibleInput()})
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.Hit)
	assert.Equal(t, first.Check, second.Check)
	assert.Equal(t, first.CacheInfo.Key, second.CacheInfo.Key)
}

func TestRunnerRefreshBypassesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil)
	defer r.Close()

	_, err = r.Execute(t.Context(), Options{Input: feasibleInput()})
	require.NoError(t, err)

	res, err := r.Execute(t.Context(), Options{Input: feasibleInput(), Refresh: true})
	require.NoError(t, err)
	assert.False(t, res.CacheInfo.Hit)
}

func TestRunnerInputPath(t *testing.T) {
	data, err := json.Marshal(feasibleInput())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "recon.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	r := NewRunner(nil, nil)
	defer r.Close()

	res, err := r.Execute(t.Context(), Options{InputPath: path})
	require.NoError(t, err)
	assert.True(t, res.Check.Feasible)
}

func TestRunnerMissingFile(t *testing.T) {
	r := NewRunner(nil, nil)
	defer r.Close()

	_, err := r.Execute(t.Context(), Options{InputPath: filepath.Join(t.TempDir(), "absent.json")})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))
}

func TestRunnerMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	r := NewRunner(nil, nil)
	defer r.Close()

	_, err := r.Execute(t.Context(), Options{InputPath: path})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
}

func TestRunnerInvalidReconciliation(t *testing.T) {
	in := feasibleInput()
	in.Reconciliation[0].Events[0].Kind = "X"

	r := NewRunner(nil, nil)
	defer r.Close()

	_, err := r.Execute(t.Context(), Options{Input: in})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidReconciliation, errors.GetCode(err))
}
