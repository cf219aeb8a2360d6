// Package converter migrates stored attribute values when an attribute's
// constraint type changes.
package converter

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/locale"
)

// ErrDuplicateConverter is returned when two converters claim the same
// (from, to) type pair.
var ErrDuplicateConverter = errors.New("duplicate converter for type pair")

// Env is everything a converter needs to prepare a conversion.
type Env struct {
	Manager *constraint.Manager
	Locale  *locale.Locale
	From    config.Attribute
	To      config.Attribute
}

// Conversion is an initialized converter bound to one attribute pair. It is
// immutable and safe for concurrent use.
type Conversion interface {
	// PatchDocument returns the sparse patch that migrates doc, or nil when
	// the document needs no change.
	PatchDocument(doc constraint.DataDocument) constraint.DataDocument
	Close() error
}

// Converter is a stateless template declaring the type pairs it handles.
type Converter interface {
	FromTypes() []config.ConstraintType
	ToTypes() []config.ConstraintType
	Init(env Env) Conversion
}

type typePair struct {
	from, to config.ConstraintType
}

func (p typePair) String() string {
	return fmt.Sprintf("%s -> %s", p.from, p.to)
}

// Registry maps (from, to) type pairs to converters. It is built once and
// never modified.
type Registry struct {
	converters map[typePair]Converter
}

// NewRegistry registers every pair each converter declares.
func NewRegistry(converters ...Converter) (*Registry, error) {
	r := &Registry{converters: make(map[typePair]Converter)}
	for _, c := range converters {
		for _, from := range c.FromTypes() {
			for _, to := range c.ToTypes() {
				pair := typePair{from: from, to: to}
				if _, exists := r.converters[pair]; exists {
					return nil, fmt.Errorf("%w: %s", ErrDuplicateConverter, pair)
				}
				r.converters[pair] = c
			}
		}
	}
	return r, nil
}

// Default returns the registry of the built-in converters.
func Default() *Registry {
	r, err := NewRegistry(
		DateToNoneConverter{},
		NoneToDateConverter{},
		DurationToNoneConverter{},
		NoneToPercentageConverter{},
		NoneToColorConverter{},
		NullToSelectConverter{},
		SelectToNoneConverter{},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the converter registered for the pair.
func (r *Registry) Lookup(from, to config.ConstraintType) (Converter, bool) {
	c, ok := r.converters[typePair{from: from, to: to}]
	return c, ok
}

// Len returns the number of registered pairs.
func (r *Registry) Len() int {
	return len(r.converters)
}

// Factory hands out conversions for attribute pairs.
type Factory struct {
	registry *Registry
	manager  *constraint.Manager
}

func NewFactory(registry *Registry, manager *constraint.Manager) *Factory {
	return &Factory{registry: registry, manager: manager}
}

// GetConstraintConverter returns an initialized conversion from one
// attribute definition to another, or nil when no converter handles the
// pair. A missing constraint counts as None.
func (f *Factory) GetConstraintConverter(from, to config.Attribute) Conversion {
	fromType, toType := from.ConstraintType(), to.ConstraintType()
	c, ok := f.registry.Lookup(fromType, toType)
	if !ok {
		logrus.Debugf("No converter for %s -> %s", fromType, toType)
		return nil
	}
	return c.Init(Env{
		Manager: f.manager,
		Locale:  f.manager.Locale(),
		From:    from,
		To:      to,
	})
}

// noPatch is the conversion of a converter whose preconditions are not met.
type noPatch struct{}

func (noPatch) PatchDocument(constraint.DataDocument) constraint.DataDocument { return nil }
func (noPatch) Close() error                                                  { return nil }

func language(env Env) string {
	if env.Locale == nil {
		return config.DefaultLocale
	}
	return env.Locale.Language()
}
