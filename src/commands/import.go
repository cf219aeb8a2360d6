package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"typeshift/src/args"
	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/database"
	"typeshift/src/sources"
)

// RunImport executes the import command
func RunImport(ctx context.Context, importArgs *args.ImportArgs, manager *constraint.Manager, db database.DBAdapter, settings config.S3Settings) error {
	_, resource, err := loadResource(importArgs.SchemaPath, importArgs.Resource)
	if err != nil {
		return err
	}

	objects, err := objectStoreFor(ctx, settings, importArgs.Input)
	if err != nil {
		return err
	}
	source, err := sources.ConnectToSource(ctx, importArgs.Input, objects)
	if err != nil {
		return fmt.Errorf("failed to connect to source: %w", err)
	}
	defer source.Close()

	store := database.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	imported, err := importDocuments(ctx, source, resource, manager, store)
	if err != nil {
		return err
	}

	logrus.Infof("Imported %d documents into %s", imported, resource.ResourceID())
	return nil
}

func importDocuments(ctx context.Context, source sources.Source, resource config.AttributesResource, manager *constraint.Manager, store *database.Store) (int, error) {
	imported := 0
	for {
		item, err := source.GetOne(ctx)
		if err != nil {
			return imported, fmt.Errorf("failed to read from source: %w", err)
		}
		if item.Type == sources.SourceItemTypeClose {
			logrus.Debug("Source closed")
			return imported, nil
		}

		doc := item.Document
		ensureID(doc)

		encoded, err := manager.EncodeDataTypes(resource, doc)
		if err != nil {
			return imported, err
		}
		if err := store.InsertData(ctx, resource.ResourceID(), encoded); err != nil {
			return imported, err
		}
		imported++
	}
}

// ensureID keeps an existing identifier as text and generates one when
// missing.
func ensureID(doc constraint.DataDocument) {
	switch id := doc[constraint.IDKey].(type) {
	case string:
		if id != "" {
			return
		}
	case nil:
	default:
		doc[constraint.IDKey] = fmt.Sprint(id)
		return
	}
	doc[constraint.IDKey] = uuid.New().String()
}
