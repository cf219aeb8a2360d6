package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeshift/src/args"
	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/database"
)

const testSchema = `
collections:
  - id: c1
    attributes:
      - id: n
        constraint: {type: Number}
      - id: d
        constraint: {type: Duration, config: {type: Classic}}
      - id: t
`

func newManager(t *testing.T) *constraint.Manager {
	t.Helper()
	m, err := constraint.NewManager("en")
	require.NoError(t, err)
	return m
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunEncode(t *testing.T) {
	tests := []struct {
		name string
		args args.EncodeArgs
		want string
	}{
		{"decimal comma", args.EncodeArgs{Value: "1,5"}, `{"value":{"$numberDecimal":"1.5"}}`},
		{"leading zero", args.EncodeArgs{Value: "007"}, `{"value":"007"}`},
		{"percentage", args.EncodeArgs{Value: "12.5%", Constraint: "{type: Percentage}"}, `{"value":{"$numberDecimal":"0.125"}}`},
		{"declared only", args.EncodeArgs{Value: "true", Constraint: "{type: Number}"}, `{"value":"true"}`},
		{"try hard", args.EncodeArgs{Value: "true", Constraint: "{type: Number}", TryHard: true}, `{"value":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, RunEncode(context.Background(), &tt.args, newManager(t), &out))
			assert.Equal(t, tt.want, strings.TrimSpace(out.String()))
		})
	}
}

func TestRunEncodeInvalidConstraint(t *testing.T) {
	var out bytes.Buffer
	err := RunEncode(context.Background(), &args.EncodeArgs{Value: "1", Constraint: "{type: Bogus}"}, newManager(t), &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownConstraintType)
}

func TestRunDecode(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{`{"$numberDecimal":"1.50"}`, `"1.5"`},
		{`{"$date":{"$numberLong":"1588672800000"}}`, `"2020-05-05T10:00:00.000+0000"`},
		{`hello`, `"hello"`},
		{`{"type":"Point","coordinates":[14.5,50.25]}`, `"50.25, 14.5"`},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, RunDecode(context.Background(), &args.DecodeArgs{Value: tt.value}, newManager(t), &out))
			assert.Equal(t, tt.want, strings.TrimSpace(out.String()))
		})
	}
}

func TestRunEvaluate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RunEvaluate(context.Background(), &args.EvaluateArgs{
		Value: "5", Condition: "between", Operands: []string{"1", "10"},
	}, newManager(t), &out))
	assert.Equal(t, "5 between [1 10]: true\n", out.String())

	out.Reset()
	require.NoError(t, RunEvaluate(context.Background(), &args.EvaluateArgs{
		Value: "12.5%", Condition: "gt", Operands: []string{"10%"}, Constraint: "{type: Percentage}",
	}, newManager(t), &out))
	assert.Equal(t, "12.5% gt [10%]: true\n", out.String())

	out.Reset()
	require.NoError(t, RunEvaluate(context.Background(), &args.EvaluateArgs{
		Value: "12.5%", Condition: "lt", Operands: []string{"1"}, Constraint: "{type: Percentage}",
	}, newManager(t), &out))
	assert.Equal(t, "12.5% lt [1]: true\n", out.String())

	err := RunEvaluate(context.Background(), &args.EvaluateArgs{
		Value: "true", Condition: "eq", Constraint: "{type: Boolean}",
	}, newManager(t), &out)
	assert.Error(t, err)
}

func TestRunQuery(t *testing.T) {
	schemaPath := writeFile(t, "schema.yaml", testSchema)
	queryPath := writeFile(t, "query.yaml", `
stages:
  - collectionId: c1
    filters:
      - collectionId: c1
        attributeId: n
        condition: eq
        conditionValues:
          - value: "1,5"
`)

	var out bytes.Buffer
	require.NoError(t, RunQuery(context.Background(), &args.QueryArgs{QueryPath: queryPath, SchemaPath: schemaPath}, newManager(t), &out))

	var query map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &query))
	filter := query["stages"].([]interface{})[0].(map[string]interface{})["filters"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "n", filter["attributeId"])
	value := filter["conditionValues"].([]interface{})[0].(map[string]interface{})["value"]
	assert.Equal(t, "1.5", value)
}

func TestImportExportConvert(t *testing.T) {
	ctx := context.Background()
	manager := newManager(t)
	schemaPath := writeFile(t, "schema.yaml", testSchema)
	input := writeFile(t, "in.jsonl", "{\"_id\":\"x\",\"n\":\"1,5\",\"d\":\"2h\",\"t\":\"text\"}\n{\"n\":7}\n{\"_id\":42}\n")

	db, err := database.CreateDatabaseAdapter(ctx, "sqlite:"+filepath.Join(t.TempDir(), "typeshift.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunImport(ctx, &args.ImportArgs{Resource: "c1", Input: input, SchemaPath: schemaPath}, manager, db, config.S3Settings{}))

	store := database.NewStore(db)
	count, err := store.CountData(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	stored, err := store.GetData(ctx, "c1", "x")
	require.NoError(t, err)
	assert.Equal(t, int64(7200000), stored["d"])
	assert.Equal(t, "text", stored["t"])
	_, err = store.GetData(ctx, "c1", "42")
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, RunExport(ctx, &args.ExportArgs{Resource: "c1", Output: output, SchemaPath: schemaPath}, manager, db, config.S3Settings{}))
	exported := readJSONL(t, output)
	require.Len(t, exported, 3)
	assert.Equal(t, "1.5", exported["x"]["n"])
	assert.Equal(t, float64(7200000), exported["x"]["d"])

	var out bytes.Buffer
	require.NoError(t, RunConvert(ctx, &args.ConvertArgs{Resource: "c1", Attribute: "d", SchemaPath: schemaPath, Save: true}, manager, db, &out))
	assert.Equal(t, "c1.d Duration -> None: scanned 3, patched 1\n", out.String())

	stored, err = store.GetData(ctx, "c1", "x")
	require.NoError(t, err)
	assert.Equal(t, "2h", stored["d"])

	schema, err := config.LoadSchemaFromPath(schemaPath)
	require.NoError(t, err)
	attr, ok := config.FindAttribute(schema.Collections[0], "d")
	require.True(t, ok)
	assert.Nil(t, attr.Constraint)
	attr, ok = config.FindAttribute(schema.Collections[0], "n")
	require.True(t, ok)
	assert.Equal(t, config.ConstraintTypeNumber, attr.ConstraintType())
}

func TestRunImportUnknownResource(t *testing.T) {
	schemaPath := writeFile(t, "schema.yaml", testSchema)
	err := RunImport(context.Background(), &args.ImportArgs{Resource: "nope", SchemaPath: schemaPath}, newManager(t), nil, config.S3Settings{})
	assert.Error(t, err)
}

func TestEnsureID(t *testing.T) {
	doc := constraint.DataDocument{"_id": json.Number("42")}
	ensureID(doc)
	assert.Equal(t, "42", doc["_id"])

	doc = constraint.DataDocument{"_id": "keep"}
	ensureID(doc)
	assert.Equal(t, "keep", doc["_id"])

	doc = constraint.DataDocument{}
	ensureID(doc)
	assert.Len(t, doc.ID(), 36)
}

func readJSONL(t *testing.T, path string) map[string]map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	docs := make(map[string]map[string]interface{})
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &doc))
		docs[doc["_id"].(string)] = doc
	}
	return docs
}
