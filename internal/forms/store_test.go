package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketsafi/web/internal/service/ticketsafi"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Nairobi Jazz Club", "nairobi-jazz-club"},
		{"  Spaces   everywhere ", "spaces-everywhere"},
		{"Rock & Roll!", "rock-roll"},
		{"already-slugged", "already-slugged"},
		{"Café Ole 2025", "caf-ole-2025"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestParseStore(t *testing.T) {
	f, err := ParseStore(postForm(url.Values{"name": {"Nairobi Jazz Club"}, "description": {"Live music"}}))
	require.NoError(t, err)
	assert.Equal(t, "nairobi-jazz-club", f.Slug)
	assert.False(t, f.Validate().Any())
	assert.Nil(t, f.Logo)

	f, err = ParseStore(postForm(url.Values{"name": {"!!!"}}))
	require.NoError(t, err)
	assert.Equal(t, MsgStoreNameRequired, f.Validate().Get("name"))
}

func TestStoreFailure(t *testing.T) {
	taken := &ticketsafi.Error{Status: 400, Kind: ticketsafi.KindValidation, Fields: map[string][]string{"slug": {"store with this slug already exists."}}}
	assert.Equal(t,
		"The URL 'ticketsafi.com/store/jazz' is already taken. Please choose a different name.",
		StoreFailure(taken, "jazz", MsgStoreCreateFailed))

	assert.Equal(t, MsgStoreCreateFailed, StoreFailure(&ticketsafi.Error{Kind: ticketsafi.KindServer}, "jazz", MsgStoreCreateFailed))
}
