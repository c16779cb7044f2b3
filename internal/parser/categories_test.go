package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoriesParser(t *testing.T) {
	t.Run("collects items after matching heading", func(t *testing.T) {
		p := NewCategoriesParser("Categories", "categories")
		data := p.Parse(makeDoc(t, `
			<h2>Categories</h2>
			<div class="store-categories">
				<a class="btn"><span>Single-player</span></a>
				<a class="btn"><span>Steam Cloud</span></a>
			</div>`))

		assert.Equal(t, Partial{"categories": []string{"Single-player", "Steam Cloud"}}, data)
	})

	t.Run("h3 headings are recognized too", func(t *testing.T) {
		p := NewCategoriesParser("Hardware", "hardware_categories")
		data := p.Parse(makeDoc(t, `
			<h3>Hardware Support</h3>
			<div class="store-categories">
				<a class="btn"><span>Steam Deck Verified</span></a>
			</div>`))

		assert.Equal(t, Partial{"hardware_categories": []string{"Steam Deck Verified"}}, data)
	})

	t.Run("heading text only needs to contain the title", func(t *testing.T) {
		p := NewCategoriesParser("Accessibility", "accessibility_categories")
		data := p.Parse(makeDoc(t, `
			<h2>Accessibility Features</h2>
			<p>intro</p>
			<div class="store-categories">
				<a class="btn"><span>Subtitles</span></a>
			</div>`))

		assert.Equal(t, Partial{"accessibility_categories": []string{"Subtitles"}}, data)
	})

	t.Run("absent section omits the key entirely", func(t *testing.T) {
		p := NewCategoriesParser("Hardware", "hardware_categories")
		data := p.Parse(makeDoc(t, `<h2>Categories</h2><div class="store-categories"><a class="btn"><span>x</span></a></div>`))

		assert.Empty(t, data)
		assert.NotContains(t, data, "hardware_categories")
	})

	t.Run("heading without a category block omits the key", func(t *testing.T) {
		p := NewCategoriesParser("Categories", "categories")
		data := p.Parse(makeDoc(t, `<h2>Categories</h2><p>coming soon</p>`))

		assert.Empty(t, data)
	})

	t.Run("empty block omits the key", func(t *testing.T) {
		p := NewCategoriesParser("Categories", "categories")
		data := p.Parse(makeDoc(t, `<h2>Categories</h2><div class="store-categories"></div>`))

		assert.Empty(t, data)
	})
}
