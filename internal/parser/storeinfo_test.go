package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInfoParser(t *testing.T) {
	p := NewStoreInfoParser()

	t.Run("full info table", func(t *testing.T) {
		data := p.Parse(makeDoc(t, `
			<div class="span8">
				<table>
					<tr><td>App ID</td><td> 730 </td></tr>
					<tr><td>App Type</td><td>Game</td></tr>
					<tr><td>Developer</td><td><a>Valve</a>, <a>Hidden Path Entertainment</a></td></tr>
					<tr><td>Publisher</td><td><a>Valve</a></td></tr>
					<tr><td>Supported Systems</td><td>
						<span class="octicon-windows"></span>
						<span class="octicon-apple"></span>
					</td></tr>
					<tr><td>Release Date</td><td>Released <b>3 July 2015 – 17:00:00 UTC</b> worldwide</td></tr>
					<tr><td>Last Change Number</td><td>999</td></tr>
				</table>
			</div>`))

		assert.Equal(t, int64(730), data["app_id"])
		assert.Equal(t, "Game", data["app_type"])
		assert.Equal(t, []string{"Valve", "Hidden Path Entertainment"}, data["developer"])
		assert.Equal(t, []string{"Valve"}, data["publisher"])
		assert.Equal(t, []string{"Windows", "macOS"}, data["supported_systems"])
		assert.Equal(t, "3 July 2015 – 17:00:00 UTC", data["release_date"])
	})

	t.Run("table absent keeps defaults", func(t *testing.T) {
		data := p.Parse(makeDoc(t, `<html><body></body></html>`))

		require.Contains(t, data, "app_id")
		assert.Nil(t, data["app_id"])
		assert.Nil(t, data["app_type"])
		assert.Equal(t, []string{}, data["developer"])
		assert.Equal(t, []string{}, data["publisher"])
		assert.Equal(t, []string{}, data["supported_systems"])
		assert.Nil(t, data["release_date"])
	})

	t.Run("malformed app id stays nil", func(t *testing.T) {
		data := p.Parse(makeDoc(t, `
			<div class="span8"><table>
				<tr><td>App ID</td><td>not-a-number</td></tr>
				<tr><td>App Type</td><td>DLC</td></tr>
			</table></div>`))

		assert.Nil(t, data["app_id"])
		assert.Equal(t, "DLC", data["app_type"])
	})

	t.Run("release date without time stays nil", func(t *testing.T) {
		data := p.Parse(makeDoc(t, `
			<div class="span8"><table>
				<tr><td>Release Date</td><td>3 July 2015</td></tr>
			</table></div>`))

		assert.Nil(t, data["release_date"])
	})

	t.Run("rows without exactly two cells are skipped", func(t *testing.T) {
		data := p.Parse(makeDoc(t, `
			<div class="span8"><table>
				<tr><td>App ID</td></tr>
				<tr><td>App ID</td><td>10</td><td>extra</td></tr>
			</table></div>`))

		assert.Nil(t, data["app_id"])
	})
}
