package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticlePayload_Validate(t *testing.T) {
	valid := ArticlePayload{
		Title:       "Launching our new CRM",
		Description: "A walkthrough of the release",
		Hyperlink:   "https://blog.example.com/crm-launch",
		AltText:     "CRM dashboard",
	}
	require.NoError(t, valid.Validate())

	t.Run("hyperlink optional", func(t *testing.T) {
		p := valid
		p.Hyperlink = ""
		assert.NoError(t, p.Validate())
	})

	t.Run("scheme optional", func(t *testing.T) {
		p := valid
		p.Hyperlink = "example.com/news"
		assert.NoError(t, p.Validate())
	})

	t.Run("blank title and description", func(t *testing.T) {
		p := valid
		p.Title = "   "
		p.Description = ""
		err := p.Validate()
		require.Error(t, err)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "Title")
		assert.Contains(t, vErr.Fields, "Description")
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("malformed hyperlink", func(t *testing.T) {
		p := valid
		p.Hyperlink = "not a link"
		err := p.Validate()

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, map[string]string{"Hyperlink": "must be a valid URL"}, vErr.Fields)
	})
}

func TestProjectItemPayload_Validate(t *testing.T) {
	valid := ProjectItemPayload{
		Name:        "Demo",
		Description: "Inventory system for retail",
		Price:       100,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ProjectItemPayload)
		field  string
	}{
		{"short name", func(p *ProjectItemPayload) { p.Name = "ab" }, "Name"},
		{"blank name", func(p *ProjectItemPayload) { p.Name = "  " }, "Name"},
		{"short description", func(p *ProjectItemPayload) { p.Description = "too short" }, "Description"},
		{"negative price", func(p *ProjectItemPayload) { p.Price = -0.5 }, "Price"},
		{"infinite price", func(p *ProjectItemPayload) { p.Price = math.Inf(1) }, "Price"},
		{"NaN price", func(p *ProjectItemPayload) { p.Price = math.NaN() }, "Price"},
		{"bad demo link", func(p *ProjectItemPayload) { p.DemoLink = "http://nodot" }, "DemoLink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			var vErr *ValidationError
			require.ErrorAs(t, p.Validate(), &vErr)
			assert.Contains(t, vErr.Fields, tt.field)
		})
	}

	t.Run("zero price and demo link", func(t *testing.T) {
		p := valid
		p.Price = 0
		p.DemoLink = "https://demo.example.io"
		assert.NoError(t, p.Validate())
	})
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}

func TestIsLink(t *testing.T) {
	assert.True(t, IsLink("https://example.com"))
	assert.True(t, IsLink("HTTP://Example.COM/path/to page"))
	assert.True(t, IsLink("sub.example.co.uk/"))
	assert.False(t, IsLink("ftp://example.com"))
	assert.False(t, IsLink("localhost"))
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []ProjectItem{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(48 * time.Hour)},
		{ID: "mid", CreatedAt: base.Add(24 * time.Hour)},
	}

	sorted := SortNewestFirst(items)

	ids := make([]string, len(sorted))
	for i, it := range sorted {
		ids[i] = it.ID
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
	assert.Equal(t, "old", items[0].ID, "input must not be reordered")
}
