package dedup_test

import (
	"testing"

	"github.com/fwojciec/catmap"
	"github.com/fwojciec/catmap/dedup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizer_StripsTrackingParams(t *testing.T) {
	t.Parallel()

	c := &dedup.Canonicalizer{}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "utm parameters removed",
			in:   "https://shop.example.com/p/123?utm_source=news&utm_campaign=x",
			want: "https://shop.example.com/p/123",
		},
		{
			name: "session and click IDs removed",
			in:   "https://shop.example.com/p/123?sessionid=abc&gclid=xyz",
			want: "https://shop.example.com/p/123",
		},
		{
			name: "variant selector preserved",
			in:   "https://shop.example.com/p/123?variant=red&utm_medium=cpc",
			want: "https://shop.example.com/p/123?variant=red",
		},
		{
			name: "parameters sorted for stability",
			in:   "https://shop.example.com/p/123?size=m&color=blue",
			want: "https://shop.example.com/p/123?color=blue&size=m",
		},
		{
			name: "host lowercased, fragment and trailing slash dropped",
			in:   "https://Shop.Example.COM/p/123/?utm_source=a#reviews",
			want: "https://shop.example.com/p/123",
		},
		{
			name: "default port removed",
			in:   "https://shop.example.com:443/p/123",
			want: "https://shop.example.com/p/123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.Canonicalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalizer_Idempotent(t *testing.T) {
	t.Parallel()

	c := &dedup.Canonicalizer{}
	inputs := []string{
		"https://shop.example.com/p/123?utm_source=a&variant=red&b=2&a=1",
		"https://shop.example.com/",
		"http://shop.example.com:80/p/1?sid=x",
	}

	for _, in := range inputs {
		once, err := c.Canonicalize(in)
		require.NoError(t, err)
		twice, err := c.Canonicalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "canonicalize(canonicalize(%q))", in)
	}
}

func TestCanonicalizer_CustomStripParams(t *testing.T) {
	t.Parallel()

	c := &dedup.Canonicalizer{StripParams: []string{"trk"}}

	got, err := c.Canonicalize("https://shop.example.com/p/1?trk=abc&variant=red")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/p/1?variant=red", got)
}

func TestCanonicalizer_RejectsInvalidURLs(t *testing.T) {
	t.Parallel()

	c := &dedup.Canonicalizer{}

	_, err := c.Canonicalize("/relative/path")
	assert.Equal(t, catmap.EINVALID, catmap.ErrorCode(err))

	_, err = c.Canonicalize("://bad")
	assert.Equal(t, catmap.EINVALID, catmap.ErrorCode(err))
}

func TestDomainKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://www.example.com/women/dresses", "example.com"},
		{"https://shop.example.co.uk/sale", "example.co.uk"},
		{"http://localhost:8080/catalog", "localhost"},
	}

	for _, tt := range tests {
		got, err := dedup.DomainKey(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
