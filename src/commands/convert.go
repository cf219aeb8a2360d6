package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"typeshift/src/args"
	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/conversion"
	"typeshift/src/converter"
	"typeshift/src/database"
)

// RunConvert migrates the stored values of one attribute to a new constraint.
func RunConvert(ctx context.Context, convertArgs *args.ConvertArgs, manager *constraint.Manager, db database.DBAdapter, out io.Writer) error {
	schema, resource, err := loadResource(convertArgs.SchemaPath, convertArgs.Resource)
	if err != nil {
		return err
	}
	original, ok := config.FindAttribute(resource, convertArgs.Attribute)
	if !ok {
		return fmt.Errorf("attribute %s not found in %s", convertArgs.Attribute, convertArgs.Resource)
	}

	updated := original
	updated.Constraint, err = parseConstraint(convertArgs.Constraint)
	if err != nil {
		return err
	}

	store := database.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	facade := conversion.NewFacade(store, converter.NewFactory(converter.Default(), manager))
	result, err := facade.ConvertStoredDocuments(ctx, resource, original, updated)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s.%s %s -> %s: scanned %d, patched %d\n",
		convertArgs.Resource, convertArgs.Attribute,
		original.ConstraintType(), updated.ConstraintType(),
		result.Scanned, result.Patched)

	if convertArgs.Save {
		return saveAttribute(schema, convertArgs.SchemaPath, convertArgs.Resource, updated)
	}
	return nil
}

// saveAttribute replaces the attribute definition and rewrites the schema
// file as YAML.
func saveAttribute(schema *config.Schema, path, resourceID string, attr config.Attribute) error {
	replace := func(attrs []config.Attribute) {
		for i := range attrs {
			if attrs[i].ID == attr.ID {
				attrs[i] = attr
			}
		}
	}
	for i := range schema.Collections {
		if schema.Collections[i].ID == resourceID {
			replace(schema.Collections[i].Attributes)
		}
	}
	for i := range schema.LinkTypes {
		if schema.LinkTypes[i].ID == resourceID {
			replace(schema.LinkTypes[i].Attributes)
		}
	}

	data, err := yaml.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}
