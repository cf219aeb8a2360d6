package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	en, err := Parse("en")
	require.NoError(t, err)
	assert.Equal(t, ".", en.DecimalSeparator)
	assert.Equal(t, ",", en.GroupSeparator)
	assert.Equal(t, "en", en.Language())

	cs, err := Parse("cs_CZ")
	require.NoError(t, err)
	assert.Equal(t, ",", cs.DecimalSeparator)
	assert.Equal(t, "cs", cs.Language())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
	_, err = Parse("not a tag!")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1234567.5", MustParse("en").Normalize("1,234,567.5"))
	assert.Equal(t, "-12.5", MustParse("cs").Normalize(" -12,5 "))
	assert.Equal(t, "1234.5", MustParse("cs").Normalize("1 234,5"))
	assert.Equal(t, "1234", MustParse("de").Normalize("1.234"))
}
