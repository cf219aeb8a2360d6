// Package conversion migrates the stored documents of a collection or link
// type after one of its attributes changed constraint.
package conversion

import (
	"context"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/converter"
)

// MaxDocuments bounds the resources a migration pass touches. Larger
// resources are left unconverted.
const MaxDocuments = 1_000_000

// DataStore is the document storage a migration pass reads and patches.
type DataStore interface {
	CountData(ctx context.Context, resourceID string) (int64, error)
	ListData(ctx context.Context, resourceID string) ([]constraint.DataDocument, error)
	PatchData(ctx context.Context, resourceID, documentID string, patch constraint.DataDocument) (constraint.DataDocument, error)
}

// Result reports what a migration pass did.
type Result struct {
	Converted bool
	Scanned   int
	Patched   int
}

// Facade runs migration passes.
type Facade struct {
	store   DataStore
	factory *converter.Factory
}

func NewFacade(store DataStore, factory *converter.Factory) *Facade {
	return &Facade{store: store, factory: factory}
}

// ConvertStoredDocuments rewrites the stored values of one attribute of
// resource from the original attribute definition to the new one. Nothing
// happens when the constraints are equivalent, when no converter handles the
// pair or when the resource holds MaxDocuments documents or more.
func (f *Facade) ConvertStoredDocuments(ctx context.Context, resource config.AttributesResource, original, updated config.Attribute) (Result, error) {
	var result Result
	log := logrus.WithFields(logrus.Fields{
		"resource": resource.ResourceID(),
		"from":     original.ConstraintType(),
		"to":       updated.ConstraintType(),
	})

	if !ConstraintsDiffer(original, updated) {
		log.Debug("Constraints are equivalent, nothing to convert")
		return result, nil
	}

	conv := f.factory.GetConstraintConverter(original, updated)
	if conv == nil {
		log.Info("No converter for constraint change")
		return result, nil
	}
	defer conv.Close()

	count, err := f.store.CountData(ctx, resource.ResourceID())
	if err != nil {
		return result, err
	}
	if count >= MaxDocuments {
		log.WithField("documents", count).Warn("Too many documents, skipping conversion")
		return result, nil
	}

	docs, err := f.store.ListData(ctx, resource.ResourceID())
	if err != nil {
		return result, err
	}
	result.Converted = true
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		patch := conv.PatchDocument(doc)
		if len(patch) == 0 {
			continue
		}
		if _, err := f.store.PatchData(ctx, resource.ResourceID(), doc.ID(), patch); err != nil {
			return result, fmt.Errorf("failed to patch document %s: %w", doc.ID(), err)
		}
		result.Patched++
	}

	log.WithFields(logrus.Fields{
		"scanned": result.Scanned,
		"patched": result.Patched,
	}).Info("Converted stored documents")
	return result, nil
}

// ConstraintsDiffer reports whether stored values need a migration: the
// types differ, or both are Select and the display value settings differ.
func ConstraintsDiffer(original, updated config.Attribute) bool {
	if original.ConstraintType() != updated.ConstraintType() {
		return true
	}
	if original.ConstraintType() != config.ConstraintTypeSelect {
		return false
	}
	return selectDisplayValuesDiffer(original.Constraint, updated.Constraint)
}

func selectDisplayValuesDiffer(original, updated *config.Constraint) bool {
	a, aok := original.Config.(config.SelectConfig)
	b, bok := updated.Config.(config.SelectConfig)
	if !aok || !bok {
		return aok != bok
	}
	if a.DisplayValues != b.DisplayValues {
		return true
	}
	return !reflect.DeepEqual(a.DisplayValuesOf(), b.DisplayValuesOf())
}
