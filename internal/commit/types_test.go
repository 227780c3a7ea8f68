package commit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityKey(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		identity Identity
		want     string
	}{
		"email wins":          {identity: Identity{Name: "Jane Doe", Email: "Jane@X.com"}, want: "jane@x.com"},
		"email is trimmed":    {identity: Identity{Name: "Jane", Email: "  jane@x.com "}, want: "jane@x.com"},
		"name when no email":  {identity: Identity{Name: " Jane DOE "}, want: "jane doe"},
		"blank email ignored": {identity: Identity{Name: "Jane", Email: "   "}, want: "jane"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.Key())
		})
	}
}

func TestIdentityDisplayName(t *testing.T) {
	assert.Equal(t, "Jane", Identity{Name: "Jane", Username: "jd"}.DisplayName())
	assert.Equal(t, "jd", Identity{Username: "jd", Email: "j@x.com"}.DisplayName())
	assert.Equal(t, "j@x.com", Identity{Email: "j@x.com"}.DisplayName())
	assert.True(t, Identity{Username: "jd"}.IsResolved())
	assert.False(t, Identity{Name: "Jane"}.IsResolved())
}

func TestTrimLeadingEmoji(t *testing.T) {
	tests := map[string]struct {
		in        string
		wantEmoji string
		wantRest  string
	}{
		"rocket":          {in: "🚀 Enhancements", wantEmoji: "🚀", wantRest: "Enhancements"},
		"heart selector":  {in: "❤️ Contributors", wantEmoji: "❤️", wantRest: "Contributors"},
		"shortcode":       {in: ":bug: Fixes", wantEmoji: ":bug:", wantRest: "Fixes"},
		"no emoji":        {in: "Fixes", wantEmoji: "", wantRest: "Fixes"},
		"colon not code":  {in: ": nope", wantEmoji: "", wantRest: ": nope"},
		"robot supplement": {in: "🤖 CI", wantEmoji: "🤖", wantRest: "CI"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			emoji, rest := TrimLeadingEmoji(tt.in)
			assert.Equal(t, tt.wantEmoji, emoji)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}
