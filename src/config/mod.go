package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrUnknownConstraintType is returned when a schema names a constraint type
// outside the closed ConstraintType set.
var ErrUnknownConstraintType = errors.New("unknown constraint type")

// ConstraintType is the semantic type attached to an attribute.
type ConstraintType string

const (
	ConstraintTypeNone           ConstraintType = "None"
	ConstraintTypeText           ConstraintType = "Text"
	ConstraintTypeNumber         ConstraintType = "Number"
	ConstraintTypePercentage     ConstraintType = "Percentage"
	ConstraintTypeBoolean        ConstraintType = "Boolean"
	ConstraintTypeDateTime       ConstraintType = "DateTime"
	ConstraintTypeDuration       ConstraintType = "Duration"
	ConstraintTypeCoordinates    ConstraintType = "Coordinates"
	ConstraintTypeSelect         ConstraintType = "Select"
	ConstraintTypeColor          ConstraintType = "Color"
	ConstraintTypeUser           ConstraintType = "User"
	ConstraintTypeAddress        ConstraintType = "Address"
	ConstraintTypeFileAttachment ConstraintType = "FileAttachment"
	ConstraintTypeAction         ConstraintType = "Action"
)

var constraintTypes = []ConstraintType{
	ConstraintTypeNone,
	ConstraintTypeText,
	ConstraintTypeNumber,
	ConstraintTypePercentage,
	ConstraintTypeBoolean,
	ConstraintTypeDateTime,
	ConstraintTypeDuration,
	ConstraintTypeCoordinates,
	ConstraintTypeSelect,
	ConstraintTypeColor,
	ConstraintTypeUser,
	ConstraintTypeAddress,
	ConstraintTypeFileAttachment,
	ConstraintTypeAction,
}

// ParseConstraintType resolves a type name case-insensitively. An empty name
// is None.
func ParseConstraintType(name string) (ConstraintType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ConstraintTypeNone, nil
	}
	for _, t := range constraintTypes {
		if strings.EqualFold(string(t), name) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownConstraintType, name)
}

// ConstraintConfig is the typed configuration of a constraint. The concrete
// type always matches the owning constraint's Type.
type ConstraintConfig interface {
	ConstraintType() ConstraintType
}

// NoneConfig configures untyped attributes.
type NoneConfig struct{}

func (NoneConfig) ConstraintType() ConstraintType { return ConstraintTypeNone }

// BooleanConfig configures Boolean attributes.
type BooleanConfig struct{}

func (BooleanConfig) ConstraintType() ConstraintType { return ConstraintTypeBoolean }

// ColorConfig configures Color attributes.
type ColorConfig struct{}

func (ColorConfig) ConstraintType() ConstraintType { return ConstraintTypeColor }

// GenericConfig keeps the raw configuration of constraint types the engine
// does not interpret (Text, User, Address, FileAttachment, Action).
type GenericConfig struct {
	Type ConstraintType
	Raw  map[string]interface{}
}

func (g GenericConfig) ConstraintType() ConstraintType { return g.Type }

// Constraint is the type and configuration attached to an attribute.
type Constraint struct {
	Type      ConstraintType         `json:"type" yaml:"type"`
	RawConfig map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
	Config    ConstraintConfig       `json:"-" yaml:"-"` // populated by convertConfig
}

// NewConstraint builds a constraint and parses its raw configuration.
func NewConstraint(constraintType ConstraintType, raw map[string]interface{}) (*Constraint, error) {
	c := &Constraint{Type: constraintType, RawConfig: raw}
	if err := c.convertConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustConstraint is NewConstraint for statically known configurations.
func MustConstraint(constraintType ConstraintType, raw map[string]interface{}) *Constraint {
	c, err := NewConstraint(constraintType, raw)
	if err != nil {
		panic(err)
	}
	return c
}

// HasConfig reports whether the constraint carried any configuration.
func (c *Constraint) HasConfig() bool {
	return c != nil && len(c.RawConfig) > 0
}

// convertConfig turns the raw configuration map into the typed variant.
func (c *Constraint) convertConfig() error {
	t, err := ParseConstraintType(string(c.Type))
	if err != nil {
		return err
	}
	c.Type = t
	logrus.Debugf("Converting constraint config of type %s", c.Type)

	raw := c.RawConfig
	switch c.Type {
	case ConstraintTypeNone:
		c.Config = NoneConfig{}
	case ConstraintTypeNumber:
		c.Config = NumberConfig{Decimals: intPtr(raw, "decimals")}
	case ConstraintTypePercentage:
		c.Config = PercentageConfig{Decimals: intPtr(raw, "decimals")}
	case ConstraintTypeBoolean:
		c.Config = BooleanConfig{}
	case ConstraintTypeDateTime:
		c.Config = DateTimeConfig{Format: stringValue(raw, "format")}
	case ConstraintTypeDuration:
		cfg, err := parseDurationConfig(raw)
		if err != nil {
			return err
		}
		c.Config = cfg
	case ConstraintTypeCoordinates:
		c.Config = parseCoordinatesConfig(raw)
	case ConstraintTypeSelect:
		cfg, err := parseSelectConfig(raw)
		if err != nil {
			return err
		}
		c.Config = cfg
	case ConstraintTypeColor:
		c.Config = ColorConfig{}
	default:
		c.Config = GenericConfig{Type: c.Type, Raw: raw}
	}
	return nil
}

// Attribute is a typed field of a collection or link type. A nil constraint
// means the attribute is untyped.
type Attribute struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Constraint *Constraint `json:"constraint,omitempty" yaml:"constraint,omitempty"`
}

// ConstraintType returns the declared type, None when unconstrained.
func (a Attribute) ConstraintType() ConstraintType {
	if a.Constraint == nil || a.Constraint.Type == "" {
		return ConstraintTypeNone
	}
	return a.Constraint.Type
}

// AttributesResource is anything that owns attributes and data documents.
type AttributesResource interface {
	ResourceID() string
	ResourceAttributes() []Attribute
}

// Constraints returns the attribute id to constraint lookup of a resource,
// skipping attributes without id or constraint.
func Constraints(resource AttributesResource) map[string]*Constraint {
	constraints := make(map[string]*Constraint)
	for _, attr := range resource.ResourceAttributes() {
		if attr.ID != "" && attr.Constraint != nil {
			constraints[attr.ID] = attr.Constraint
		}
	}
	return constraints
}

// Collection is a set of documents sharing attributes.
type Collection struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
}

func (c Collection) ResourceID() string              { return c.ID }
func (c Collection) ResourceAttributes() []Attribute { return c.Attributes }

// LinkType connects two collections; its link instances carry attributes.
type LinkType struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name,omitempty" yaml:"name,omitempty"`
	CollectionIDs []string    `json:"collectionIds,omitempty" yaml:"collectionIds,omitempty"`
	Attributes    []Attribute `json:"attributes" yaml:"attributes"`
}

func (l LinkType) ResourceID() string              { return l.ID }
func (l LinkType) ResourceAttributes() []Attribute { return l.Attributes }

// Schema is the set of collections and link types the tools operate on.
type Schema struct {
	Locale      string       `json:"locale,omitempty" yaml:"locale,omitempty"`
	Collections []Collection `json:"collections" yaml:"collections"`
	LinkTypes   []LinkType   `json:"linkTypes" yaml:"linkTypes"`
}

// Resource finds a collection or link type by id, collections first.
func (s *Schema) Resource(id string) (AttributesResource, bool) {
	for _, c := range s.Collections {
		if c.ID == id {
			return c, true
		}
	}
	for _, l := range s.LinkTypes {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// FindAttribute finds an attribute of a resource.
func FindAttribute(resource AttributesResource, id string) (Attribute, bool) {
	for _, attr := range resource.ResourceAttributes() {
		if attr.ID == id {
			return attr, true
		}
	}
	return Attribute{}, false
}

// ConvertConstraints parses every raw constraint config of the schema.
func (s *Schema) ConvertConstraints() error {
	for i := range s.Collections {
		if err := convertAttributes(s.Collections[i].Attributes); err != nil {
			return fmt.Errorf("collection %s: %w", s.Collections[i].ID, err)
		}
	}
	for i := range s.LinkTypes {
		if err := convertAttributes(s.LinkTypes[i].Attributes); err != nil {
			return fmt.Errorf("link type %s: %w", s.LinkTypes[i].ID, err)
		}
	}
	return nil
}

func convertAttributes(attrs []Attribute) error {
	for i := range attrs {
		if attrs[i].Constraint == nil {
			continue
		}
		if err := attrs[i].Constraint.convertConfig(); err != nil {
			return fmt.Errorf("attribute %s: %w", attrs[i].ID, err)
		}
	}
	return nil
}

// ParseSchema loads a schema from YAML or JSON text.
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, &schema); err != nil {
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("failed to parse schema as YAML or JSON: %w", err)
		}
	}
	if err := schema.ConvertConstraints(); err != nil {
		return nil, err
	}
	return &schema, nil
}

// LoadSchemaFromPath loads a schema file.
func LoadSchemaFromPath(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseSchema(data)
}

// ParseConstraint reads a single constraint given as YAML or JSON, e.g.
// {"type": "DateTime", "config": {"format": "DD.MM.YYYY"}}.
func ParseConstraint(text string) (*Constraint, error) {
	var c Constraint
	if err := yaml.Unmarshal([]byte(text), &c); err != nil {
		return nil, fmt.Errorf("failed to parse constraint: %w", err)
	}
	if err := c.convertConfig(); err != nil {
		return nil, err
	}
	return &c, nil
}
