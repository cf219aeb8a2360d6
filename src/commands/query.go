package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"typeshift/src/args"
	"typeshift/src/config"
	"typeshift/src/constraint"
)

// RunQuery encodes (or decodes) the filter values of a query file under the
// schema's constraints and prints the query as JSON.
func RunQuery(ctx context.Context, queryArgs *args.QueryArgs, manager *constraint.Manager, out io.Writer) error {
	schema, err := config.LoadSchemaFromPath(queryArgs.SchemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema from path %s: %w", queryArgs.SchemaPath, err)
	}

	data, err := os.ReadFile(queryArgs.QueryPath)
	if err != nil {
		return fmt.Errorf("failed to read query file: %w", err)
	}
	var query constraint.Query
	if err := yaml.Unmarshal(data, &query); err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	if queryArgs.Decode {
		query, err = manager.DecodeQuery(query, schema.Collections, schema.LinkTypes)
	} else {
		query, err = manager.EncodeQuery(query, schema.Collections, schema.LinkTypes)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(query)
}
