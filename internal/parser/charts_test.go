package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

const chartsHTML = `
<table class="table-products">
	<thead><tr><th>Rank</th><th></th><th>Name</th><th>Current</th><th>24h</th><th>All-time</th></tr></thead>
	<tbody>
		<tr data-appid="10"><td>1</td><td><img></td><td>A</td><td>5</td><td>9</td><td>20</td></tr>
		<tr data-appid="730"><td>2</td><td><img></td><td>Counter-Strike 2</td><td>1,203,414</td><td>1,391,045</td><td>1,818,773</td></tr>
		<tr data-appid="570"><td>3</td><td><img></td><td>Dota 2</td><td>512,222</td><td>700,001</td><td>1,295,114</td><td>extra</td></tr>
	</tbody>
</table>`

func TestChartsParserRoundTrip(t *testing.T) {
	p := NewChartsParser()

	entries, err := p.Parse(chartsHTML)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, models.ChartEntry{
		AppID: "10", Rank: "1", Name: "A", CurrentPlayers: "5", Peak24h: "9", PeakAllTime: "20",
	}, entries[0])
	assert.Equal(t, "730", entries[1].AppID)
	assert.Equal(t, "Counter-Strike 2", entries[1].Name)
	assert.Equal(t, "1,818,773", entries[1].PeakAllTime)

	// A trailing extra cell does not shift the fixed columns.
	assert.Equal(t, "512,222", entries[2].CurrentPlayers)
	assert.Equal(t, "1,295,114", entries[2].PeakAllTime)
}

func TestChartsParserShortRowSurfaces(t *testing.T) {
	p := NewChartsParser()
	html := `
		<table class="table-products"><tbody>
			<tr data-appid="10"><td>1</td><td></td><td>A</td><td>5</td><td>9</td><td>20</td></tr>
			<tr data-appid="440"><td>2</td><td></td><td>broken</td></tr>
			<tr data-appid="570"><td>3</td><td></td><td>C</td><td>7</td><td>8</td><td>30</td></tr>
		</tbody></table>`

	t.Run("Parse aborts on the first defect", func(t *testing.T) {
		entries, err := p.Parse(html)
		require.ErrorIs(t, err, ErrShortRow)
		// Rows before the defect are still handed back.
		require.Len(t, entries, 1)
		assert.Equal(t, "10", entries[0].AppID)
	})

	t.Run("Entries lets the caller skip defective rows", func(t *testing.T) {
		var kept []models.ChartEntry
		var defects int
		for entry, err := range p.Entries(makeDoc(t, html)) {
			if err != nil {
				defects++
				continue
			}
			kept = append(kept, entry)
		}

		assert.Equal(t, 1, defects)
		require.Len(t, kept, 2)
		assert.Equal(t, "570", kept[1].AppID)
	})

	t.Run("Entries is restartable", func(t *testing.T) {
		doc := makeDoc(t, html)
		seq := p.Entries(doc)
		for range 2 {
			var n int
			for _, err := range seq {
				if err == nil {
					n++
				}
			}
			assert.Equal(t, 2, n)
		}
	})
}

func TestChartsParserNoTable(t *testing.T) {
	p := NewChartsParser()

	entries, err := p.Parse(`<html><body><p>charts are down</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
