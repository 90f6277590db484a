package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableFacetsWithoutFilterReturnsFullSortedSets(t *testing.T) {
	repo := newMemRepo(fixture()...)
	got, err := AvailableFacets(context.Background(), repo, Filter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Bowls", "Glassware", "Plates"}, got.Categories) // "" excluded
	assert.Equal(t, []string{"Libbey", "Oneida", "Steelite"}, got.Manufacturers)
	assert.Equal(t, []string{"Aura", "Rustic"}, got.Patterns)
	assert.Equal(t, []string{"A1", "B2"}, got.Collections)
	assert.True(t, got.HasQuickShip)
	assert.Len(t, repo.facetCalls, 1)
}

func TestAvailableFacetsNarrowsOtherDimensions(t *testing.T) {
	repo := newMemRepo(fixture()...)
	got, err := AvailableFacets(context.Background(), repo, Filter{Categories: []string{"Plates"}})
	require.NoError(t, err)

	// The selected dimension keeps its full option list for widening.
	assert.Equal(t, []string{"Bowls", "Glassware", "Plates"}, got.Categories)
	assert.Equal(t, []string{"Libbey", "Steelite"}, got.Manufacturers)
	assert.Equal(t, []string{"Aura"}, got.Patterns)
	assert.Equal(t, []string{"A1"}, got.Collections)
	assert.True(t, got.HasQuickShip)
}

func TestAvailableFacetsCombinesSelections(t *testing.T) {
	repo := newMemRepo(fixture()...)
	f := Filter{Categories: []string{"Bowls"}, Manufacturers: []string{"Libbey"}}
	got, err := AvailableFacets(context.Background(), repo, f)
	require.NoError(t, err)

	// categories offered by Libbey products; manufacturers offered by bowls.
	assert.Equal(t, []string{"Bowls", "Glassware", "Plates"}, got.Categories)
	assert.Equal(t, []string{"Libbey", "Steelite"}, got.Manufacturers)
	assert.Equal(t, []string{"Rustic"}, got.Patterns)
	assert.Equal(t, []string{"B2"}, got.Collections)
	assert.False(t, got.HasQuickShip)
}

func TestAvailableFacetsNoMatchesYieldsEmptyLists(t *testing.T) {
	repo := newMemRepo(fixture()...)
	got, err := AvailableFacets(context.Background(), repo, Filter{Search: "teapot"})
	require.NoError(t, err)

	assert.Empty(t, got.Categories)
	assert.NotNil(t, got.Categories)
	assert.Empty(t, got.Manufacturers)
	assert.False(t, got.HasQuickShip)
}

// Adding a constraint to a filter can only shrink the result set.
func TestFacetNarrowingIsMonotonic(t *testing.T) {
	products := fixture()
	steps := []func(Filter) Filter{
		func(f Filter) Filter { f.Categories = []string{"Plates", "Bowls"}; return f },
		func(f Filter) Filter { f.Manufacturers = []string{"Libbey", "Steelite"}; return f },
		func(f Filter) Filter { f.Patterns = []string{"Rustic"}; return f },
		func(f Filter) Filter { f.Collection = "B2"; return f },
		func(f Filter) Filter { f.QuickShip = true; return f },
		func(f Filter) Filter { f.Search = "bowl"; return f },
	}

	// Every subset of steps, applied in order, compared with each one-step extension.
	for mask := 0; mask < 1<<len(steps); mask++ {
		var base Filter
		for i, step := range steps {
			if mask&(1<<i) != 0 {
				base = step(base)
			}
		}
		for i, step := range steps {
			if mask&(1<<i) != 0 {
				continue
			}
			narrowed := step(base)
			for _, p := range products {
				if narrowed.Match(p) {
					assert.True(t, base.Match(p), "product %d matches %+v but not %+v", p.ID, narrowed, base)
				}
			}
		}
	}
}
