package workshop

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountSeeAllBanner(t *testing.T) {
	tests := []struct {
		name string
		page string
		want int
	}{
		{"comma separator", "Browse the Workshop. See all 7,039 Mods here.", 7039},
		{"dot separator", "See all 1.234 Mods", 1234},
		{"plain number", "See all 42 Mods", 42},
		{"uppercase", "SEE ALL 42 MODS", 42},
		{"extra whitespace", "See   all \t 999   Mods", 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Count(tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountPagingSummary(t *testing.T) {
	got, err := Count("<div>Showing 1-30 of 7,039 entries</div>")
	require.NoError(t, err)
	assert.Equal(t, 7039, got)

	got, err = Count("Showing 5 of 321 entries")
	require.NoError(t, err)
	assert.Equal(t, 321, got)
}

func TestCountResultsCounterElement(t *testing.T) {
	page := `<html><body>
		<div class="workshopBrowsePagingInfo">
			<span id="searchResults_total">
				7,039
			</span> results match your search.
		</div>
	</body></html>`

	got, err := Count(page)
	require.NoError(t, err)
	assert.Equal(t, 7039, got)
}

func TestCountBannerWinsOverPagingSummary(t *testing.T) {
	page := `See all 7,039 Mods
		Showing 1-30 of 1 entries
		<span id="searchResults_total">2</span>`

	got, err := Count(page)
	require.NoError(t, err)
	assert.Equal(t, 7039, got)
}

func TestCountDigitlessMatchFallsThrough(t *testing.T) {
	// The banner matches on separators alone; the counter element still
	// carries a usable number.
	page := `See all ,,, Mods <span id="searchResults_total">123</span>`

	got, err := Count(page)
	require.NoError(t, err)
	assert.Equal(t, 123, got)
}

func TestCountMirrorTextPage(t *testing.T) {
	page := "Title: Steam Workshop::Escape the Backrooms\n\n" +
		"Markdown Content:\n" +
		"[Browse the Workshop](https://steamcommunity.com/workshop/browse)\n" +
		"See all 333 Mods\n"

	got, err := Count(page)
	require.NoError(t, err)
	assert.Equal(t, 333, got)
}

func TestCountNoTotal(t *testing.T) {
	got, err := Count("<html><body><h1>Steam Workshop</h1></body></html>")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTotal))
	assert.Zero(t, got)
}
