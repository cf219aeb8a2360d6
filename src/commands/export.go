package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"typeshift/src/args"
	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/database"
	"typeshift/src/sources"
)

// RunExport executes the export command
func RunExport(ctx context.Context, exportArgs *args.ExportArgs, manager *constraint.Manager, db database.DBAdapter, settings config.S3Settings) error {
	_, resource, err := loadResource(exportArgs.SchemaPath, exportArgs.Resource)
	if err != nil {
		return err
	}

	store := database.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	objects, err := objectStoreFor(ctx, settings, exportArgs.Output)
	if err != nil {
		return err
	}
	sink, err := sources.OpenSink(ctx, exportArgs.Output, objects)
	if err != nil {
		return err
	}

	exported, err := exportDocuments(ctx, resource, manager, store, sink, exportArgs.Raw)
	if err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	logrus.Infof("Exported %d documents from %s", exported, resource.ResourceID())
	return nil
}

func exportDocuments(ctx context.Context, resource config.AttributesResource, manager *constraint.Manager, store *database.Store, sink *sources.Sink, raw bool) (int, error) {
	docs, err := store.ListData(ctx, resource.ResourceID())
	if err != nil {
		return 0, err
	}

	for i, doc := range docs {
		if !raw {
			doc, err = manager.DecodeDataTypes(resource, doc)
			if err != nil {
				return i, err
			}
		}
		if err := sink.Write(doc); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}
