package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamdbtools/steamdb-scraper/internal/models"
)

func TestWriterAppendsWithSingleHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.csv")

	w, err := NewWriter(path, models.ChartColumns)
	require.NoError(t, err)
	require.NoError(t, w.Write(models.ChartEntry{AppID: "10", Rank: "1", Name: "A", CurrentPlayers: "5", Peak24h: "9", PeakAllTime: "20"}.Values()))
	require.NoError(t, w.Close())

	// Reopen and append: no second header.
	w, err = NewWriter(path, models.ChartColumns)
	require.NoError(t, err)
	require.NoError(t, w.Write(models.ChartEntry{AppID: "730", Rank: "2", Name: "B, with comma", CurrentPlayers: "6", Peak24h: "7", PeakAllTime: "8"}.Values()))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"app_id,rank,name,current_players,24h_peak,all_time_peak\n"+
			"10,1,A,5,9,20\n"+
			"730,2,\"B, with comma\",6,7,8\n",
		string(content))
}

func TestWriterRejectsWrongWidth(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "out.csv"), []string{"a", "b"})
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Write([]string{"only-one"}))
}

func TestLoadAppIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.csv")
	csv := "app_id,rank,name,current_players,24h_peak,all_time_peak\n" +
		"10,1,A,5,9,20\n" +
		"730,2,B,6,7,8\n" +
		"not-an-id,3,C,1,2,3\n" +
		"570,4,D,1,2,3\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	t.Run("all ids in file order, bad ids skipped", func(t *testing.T) {
		ids, err := LoadAppIDs(path, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 730, 570}, ids)
	})

	t.Run("start from the middle", func(t *testing.T) {
		ids, err := LoadAppIDs(path, 730)
		require.NoError(t, err)
		assert.Equal(t, []int64{730, 570}, ids)
	})

	t.Run("unknown start id fails", func(t *testing.T) {
		_, err := LoadAppIDs(path, 9999)
		require.ErrorIs(t, err, ErrAppIDNotFound)
	})

	t.Run("missing app_id column fails", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(bad, []byte("rank,name\n1,A\n"), 0o644))

		_, err := LoadAppIDs(bad, 0)
		require.Error(t, err)
	})
}
