package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
locale: cs
collections:
  - id: c1
    name: Tasks
    attributes:
      - id: a1
        name: Due
        constraint:
          type: DateTime
          config:
            format: DD.MM.YYYY
      - id: a2
        name: Estimate
        constraint:
          type: duration
          config:
            type: Custom
            conversions: {s: 1000, m: 60, h: 60, d: 8, w: 5}
      - id: a3
        name: State
        constraint:
          type: Select
          config:
            options:
              - {value: v1, displayValue: One}
              - {value: v2, displayValue: Two}
      - id: a4
        name: Notes
linkTypes:
  - id: l1
    collectionIds: [c1, c1]
    attributes:
      - id: a1
        constraint:
          type: Percentage
          config:
            decimals: 2
`

func TestParseSchema(t *testing.T) {
	schema, err := ParseSchema([]byte(testSchema))
	require.NoError(t, err)
	assert.Equal(t, "cs", schema.Locale)
	require.Len(t, schema.Collections, 1)

	attrs := schema.Collections[0].Attributes
	assert.Equal(t, DateTimeConfig{Format: "DD.MM.YYYY"}, attrs[0].Constraint.Config)

	duration, ok := attrs[1].Constraint.Config.(DurationConfig)
	require.True(t, ok)
	assert.Equal(t, ConstraintTypeDuration, attrs[1].Constraint.Type)
	assert.Equal(t, DurationTypeCustom, duration.Type)
	assert.Equal(t, int64(8), duration.Conversions[DurationUnitDay])

	sel, ok := attrs[2].Constraint.Config.(SelectConfig)
	require.True(t, ok)
	assert.Equal(t, []string{"One", "Two"}, sel.DisplayValuesOf())

	assert.Nil(t, attrs[3].Constraint)
	assert.Equal(t, ConstraintTypeNone, attrs[3].ConstraintType())

	res, ok := schema.Resource("l1")
	require.True(t, ok)
	pct := Constraints(res)["a1"].Config.(PercentageConfig)
	require.NotNil(t, pct.Decimals)
	assert.Equal(t, 2, *pct.Decimals)
}

func TestParseSchemaJSON(t *testing.T) {
	schema, err := ParseSchema([]byte(`{"collections":[{"id":"c1","attributes":[{"id":"a1","constraint":{"type":"Number","config":{"decimals":3}}}]}]}`))
	require.NoError(t, err)
	cfg := schema.Collections[0].Attributes[0].Constraint.Config.(NumberConfig)
	require.NotNil(t, cfg.Decimals)
	assert.Equal(t, 3, *cfg.Decimals)
}

func TestParseSchemaUnknownType(t *testing.T) {
	_, err := ParseSchema([]byte(`collections: [{id: c1, attributes: [{id: a1, constraint: {type: Hologram}}]}]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConstraintType)
}

func TestParseConstraint(t *testing.T) {
	c, err := ParseConstraint(`{"type": "Duration", "config": {"type": "Work"}}`)
	require.NoError(t, err)
	assert.Equal(t, DurationConfig{Type: DurationTypeWork}, c.Config)
	assert.True(t, c.HasConfig())

	c, err = ParseConstraint(`type: Color`)
	require.NoError(t, err)
	assert.Equal(t, ColorConfig{}, c.Config)
	assert.False(t, c.HasConfig())
}

func TestDurationConfigRejectsBadMultiplier(t *testing.T) {
	_, err := NewConstraint(ConstraintTypeDuration, map[string]interface{}{
		"type":        "Custom",
		"conversions": map[string]interface{}{"d": 0},
	})
	require.Error(t, err)
}

func TestGenericConfigKeepsRaw(t *testing.T) {
	c := MustConstraint(ConstraintTypeUser, map[string]interface{}{"externalUsers": true})
	assert.Equal(t, GenericConfig{Type: ConstraintTypeUser, Raw: map[string]interface{}{"externalUsers": true}}, c.Config)
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:/tmp/x.db")
	t.Setenv("TYPESHIFT_LOCALE", "")
	t.Setenv("AWS_REGION", "eu-central-1")
	t.Setenv("DEBUG", "1")

	s := LoadSettings()
	assert.Equal(t, "sqlite:/tmp/x.db", s.DatabaseURL)
	assert.Equal(t, DefaultLocale, s.Locale)
	assert.Equal(t, "eu-central-1", s.S3.Region)
	assert.True(t, s.Debug)
}
