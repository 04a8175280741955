package listings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTags(t *testing.T) {
	cases := []struct {
		name     string
		featured bool
		active   bool
		want     []Tag
	}{
		{"plain active listing is new", false, true, []Tag{TagNew}},
		{"featured active", true, true, []Tag{TagFeatured}},
		{"inactive", false, false, []Tag{TagPaused}},
		{"featured inactive keeps both badges", true, false, []Tag{TagFeatured, TagPaused}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveTags(tc.featured, tc.active))
		})
	}
}

func TestDeriveTags_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, DeriveTags(true, false), DeriveTags(true, false))
	}
}

func TestListing_Featured(t *testing.T) {
	l := Listing{Tags: DeriveTags(true, true)}
	assert.True(t, l.Featured())
	assert.True(t, l.HasTag(TagFeatured))
	assert.False(t, l.HasTag(TagPaused))

	l.Tags = DeriveTags(false, true)
	assert.False(t, l.Featured())
}

func TestFallbackAvatar(t *testing.T) {
	assert.Contains(t, FallbackAvatar("Dona Maria"), "Dona")
	assert.Contains(t, FallbackAvatar(""), "Host")
}
