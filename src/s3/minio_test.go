package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	bucket, key, err := ParseURL("s3://data/exports/c1.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "data", bucket)
	assert.Equal(t, "exports/c1.jsonl", key)

	for _, bad := range []string{"data/c1.jsonl", "s3://data", "s3://data/", "s3:///key"} {
		_, _, err := ParseURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("s3://b/k"))
	assert.False(t, IsURL("/tmp/file.jsonl"))
	assert.False(t, IsURL("-"))
}
