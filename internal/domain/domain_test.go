package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_RSS(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{name: "string", doc: Document{"rss": "https://example.com/feed"}, want: "https://example.com/feed"},
		{name: "empty string", doc: Document{"rss": ""}, want: ""},
		{name: "missing", doc: Document{"maintenance": false}, want: ""},
		{name: "not a string", doc: Document{"rss": true}, want: ""},
		{name: "nil document", doc: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.RSS())
		})
	}
}

func TestInstance_Name(t *testing.T) {
	assert.Equal(t, "survival", Instance{"name": "survival"}.Name())
	assert.Empty(t, Instance{"name": 42}.Name())
}

func TestNews_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(News{Source: SourceOnline, Raw: json.RawMessage(`{"any":"shape"}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"any":"shape"}`, string(raw))

	empty, err := json.Marshal(News{Source: SourceRSS})
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(empty))

	items, err := json.Marshal(News{Source: SourceRSS, Items: []NewsItem{{
		Title:       "Patch",
		Content:     "<p>Fixes</p>",
		Author:      "Luuxis",
		PublishDate: "Sat, 17 Oct 2026 10:00:00 GMT",
	}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"Patch","content":"<p>Fixes</p>","author":"Luuxis","publish_date":"Sat, 17 Oct 2026 10:00:00 GMT"}]`, string(items))
}

func TestUnavailableError(t *testing.T) {
	cause := fmt.Errorf("%w: no such file", ErrOfflineRead)
	err := fmt.Errorf("get config: %w", NewUnavailableError(ResourceConfig, cause))

	assert.ErrorIs(t, err, ErrConfigUnavailable)
	assert.NotErrorIs(t, err, ErrNewsUnavailable)
	assert.ErrorIs(t, err, ErrOfflineRead)

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "Unable to load config.json online or offline", unavailable.Message)
	assert.Contains(t, unavailable.Error(), "no such file")

	news := NewUnavailableError(ResourceNews, nil)
	assert.ErrorIs(t, news, ErrNewsUnavailable)
	assert.Equal(t, "Unable to load news.json online or offline", news.Error())
}
