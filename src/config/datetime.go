package config

// DateTimeConfig configures DateTime attributes. Format is a display pattern
// in moment-style tokens (e.g. "DD.MM.YYYY HH:mm"); empty means the
// canonical ISO form.
type DateTimeConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

func (DateTimeConfig) ConstraintType() ConstraintType { return ConstraintTypeDateTime }

// CoordinatesConfig configures Coordinates attributes. Neither field affects
// parsing; they are kept for display.
type CoordinatesConfig struct {
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`
	Precision *int   `json:"precision,omitempty" yaml:"precision,omitempty"`
}

func (CoordinatesConfig) ConstraintType() ConstraintType { return ConstraintTypeCoordinates }

func parseCoordinatesConfig(raw map[string]interface{}) CoordinatesConfig {
	return CoordinatesConfig{
		Format:    stringValue(raw, "format"),
		Precision: intPtr(raw, "precision"),
	}
}
