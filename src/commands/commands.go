// Package commands implements the typeshift subcommands.
package commands

import (
	"context"
	"fmt"
	"strings"

	"typeshift/src/config"
	"typeshift/src/s3"
	"typeshift/src/sources"
)

// loadResource loads the schema and finds a collection or link type in it.
func loadResource(schemaPath, resourceID string) (*config.Schema, config.AttributesResource, error) {
	schema, err := config.LoadSchemaFromPath(schemaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load schema from path %s: %w", schemaPath, err)
	}
	resource, ok := schema.Resource(resourceID)
	if !ok {
		return nil, nil, fmt.Errorf("resource %s not found in schema %s", resourceID, schemaPath)
	}
	return schema, resource, nil
}

// parseConstraint reads a constraint flag; empty text is no constraint.
func parseConstraint(text string) (*config.Constraint, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	c, err := config.ParseConstraint(text)
	if err != nil {
		return nil, fmt.Errorf("invalid constraint: %w", err)
	}
	return c, nil
}

// objectStoreFor connects to S3 only when location is an s3:// URL.
func objectStoreFor(ctx context.Context, settings config.S3Settings, location string) (sources.ObjectStore, error) {
	if !s3.IsURL(location) {
		return nil, nil
	}
	store, err := s3.NewObjectStore(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object store: %w", err)
	}
	return store, nil
}
