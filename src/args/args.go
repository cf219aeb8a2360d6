package args

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Args represents the main command line arguments
type Args struct {
	DB     string     `json:"db"`
	Locale string     `json:"locale"`
	SubCmd SubCommand `json:"subcmd"`
}

// SubCommand represents the subcommands available
type SubCommand struct {
	Name         string        `json:"name"`
	EncodeArgs   *EncodeArgs   `json:"encode_args,omitempty"`
	DecodeArgs   *DecodeArgs   `json:"decode_args,omitempty"`
	EvaluateArgs *EvaluateArgs `json:"evaluate_args,omitempty"`
	QueryArgs    *QueryArgs    `json:"query_args,omitempty"`
	ImportArgs   *ImportArgs   `json:"import_args,omitempty"`
	ExportArgs   *ExportArgs   `json:"export_args,omitempty"`
	ConvertArgs  *ConvertArgs  `json:"convert_args,omitempty"`
}

// NeedsDatabase reports whether the subcommand works on stored documents.
func (s SubCommand) NeedsDatabase() bool {
	switch s.Name {
	case "import", "export", "convert":
		return true
	}
	return false
}

// EncodeArgs represents arguments for the encode subcommand
type EncodeArgs struct {
	Value      string `json:"value"`
	Constraint string `json:"constraint"`
	TryHard    bool   `json:"try_hard"`
}

// DecodeArgs represents arguments for the decode subcommand
type DecodeArgs struct {
	Value      string `json:"value"`
	Constraint string `json:"constraint"`
}

// EvaluateArgs represents arguments for the evaluate subcommand
type EvaluateArgs struct {
	Value      string   `json:"value"`
	Condition  string   `json:"condition"`
	Operands   []string `json:"operands"`
	Constraint string   `json:"constraint"`
}

// QueryArgs represents arguments for the query subcommand
type QueryArgs struct {
	QueryPath  string `json:"query_path"`
	SchemaPath string `json:"schema_path"`
	Decode     bool   `json:"decode"`
}

// ImportArgs represents arguments for the import subcommand
type ImportArgs struct {
	Resource   string `json:"resource"`
	Input      string `json:"input"`
	SchemaPath string `json:"schema_path"`
}

// ExportArgs represents arguments for the export subcommand
type ExportArgs struct {
	Resource   string `json:"resource"`
	Output     string `json:"output"`
	SchemaPath string `json:"schema_path"`
	Raw        bool   `json:"raw"`
}

// ConvertArgs represents arguments for the convert subcommand
type ConvertArgs struct {
	Resource   string `json:"resource"`
	Attribute  string `json:"attribute"`
	SchemaPath string `json:"schema_path"`
	Constraint string `json:"constraint"`
	Save       bool   `json:"save"`
}

// Global variables to store parsed arguments
var (
	globalArgs Args
	rootCmd    *cobra.Command
)

const constraintHelp = `Constraint as YAML or JSON, e.g. '{type: DateTime, config: {format: "DD.MM.YYYY"}}'. Empty means no constraint.`

// createRootCmd creates the root command
func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "typeshift",
		Short: "Typed attribute values and constraint migrations",
		Long: `Encode and decode attribute values under their constraints, and migrate
stored documents when an attribute changes its constraint type.`,
		SilenceUsage: true,
	}

	// Add global flags
	cmd.PersistentFlags().StringVar(&globalArgs.DB, "db", "",
		"Database url (postgres://... or sqlite:path). Can also be provided by a DATABASE_URL env var, but only if this arg is not provided.")
	cmd.PersistentFlags().StringVar(&globalArgs.Locale, "locale", "",
		"Language tag used to parse and format values. Defaults to TYPESHIFT_LOCALE, then en.")

	return cmd
}

// createEncodeCmd creates the encode subcommand
func createEncodeCmd() *cobra.Command {
	encodeArgs := &EncodeArgs{}

	cmd := &cobra.Command{
		Use:   "encode [value]",
		Short: "Encode a raw value into its storage form",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			encodeArgs.Value = args[0]
			globalArgs.SubCmd = SubCommand{
				Name:       "encode",
				EncodeArgs: encodeArgs,
			}
		},
	}

	cmd.Flags().StringVarP(&encodeArgs.Constraint, "constraint", "c", "", constraintHelp)
	cmd.Flags().BoolVar(&encodeArgs.TryHard, "try-hard", false,
		"Try every known interpretation when the constraint does not accept the value (formula mode).")

	return cmd
}

// createDecodeCmd creates the decode subcommand
func createDecodeCmd() *cobra.Command {
	decodeArgs := &DecodeArgs{}

	cmd := &cobra.Command{
		Use:   "decode [value]",
		Short: "Decode a stored value into its display form",
		Long: `Decode a stored value into its display form. The value is read as
MongoDB extended JSON (e.g. '{"$numberDecimal": "1.5"}'), plain text otherwise.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			decodeArgs.Value = args[0]
			globalArgs.SubCmd = SubCommand{
				Name:       "decode",
				DecodeArgs: decodeArgs,
			}
		},
	}

	cmd.Flags().StringVarP(&decodeArgs.Constraint, "constraint", "c", "", constraintHelp)

	return cmd
}

// createEvaluateCmd creates the evaluate subcommand
func createEvaluateCmd() *cobra.Command {
	evaluateArgs := &EvaluateArgs{}

	cmd := &cobra.Command{
		Use:   "evaluate [value] [condition] [operands...]",
		Short: "Evaluate a filter condition on a numeric value",
		Long: `Evaluate a filter condition (eq, neq, lt, lte, gt, gte, between,
notBetween, empty, notEmpty) on a Number or Percentage value.`,
		Args: cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			evaluateArgs.Value = args[0]
			evaluateArgs.Condition = args[1]
			evaluateArgs.Operands = args[2:]
			globalArgs.SubCmd = SubCommand{
				Name:         "evaluate",
				EvaluateArgs: evaluateArgs,
			}
		},
	}

	cmd.Flags().StringVarP(&evaluateArgs.Constraint, "constraint", "c", "", constraintHelp)

	return cmd
}

// createQueryCmd creates the query subcommand
func createQueryCmd() *cobra.Command {
	queryArgs := &QueryArgs{}

	cmd := &cobra.Command{
		Use:   "query [query_path]",
		Short: "Encode the filter values of a query",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			queryArgs.QueryPath = args[0]
			globalArgs.SubCmd = SubCommand{
				Name:      "query",
				QueryArgs: queryArgs,
			}
		},
	}

	cmd.Flags().StringVarP(&queryArgs.SchemaPath, "schema", "s", "", "Path to the schema file.")
	cmd.Flags().BoolVar(&queryArgs.Decode, "decode", false, "Decode the filter values instead.")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

// createImportCmd creates the import subcommand
func createImportCmd() *cobra.Command {
	importArgs := &ImportArgs{}

	cmd := &cobra.Command{
		Use:   "import [resource] [input]",
		Short: "Import documents",
		Long: `Import documents from a JSONL file or s3://bucket/key object.
Read from stdin by not providing any input.`,
		Args: cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			importArgs.Resource = args[0]
			if len(args) > 1 {
				importArgs.Input = args[1]
			}
			globalArgs.SubCmd = SubCommand{
				Name:       "import",
				ImportArgs: importArgs,
			}
		},
	}

	cmd.Flags().StringVarP(&importArgs.SchemaPath, "schema", "s", "", "Path to the schema file.")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

// createExportCmd creates the export subcommand
func createExportCmd() *cobra.Command {
	exportArgs := &ExportArgs{}

	cmd := &cobra.Command{
		Use:   "export [resource] [output]",
		Short: "Export documents",
		Long: `Export documents to a JSONL file or s3://bucket/key object.
Write to stdout by not providing any output.`,
		Args: cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			exportArgs.Resource = args[0]
			if len(args) > 1 {
				exportArgs.Output = args[1]
			}
			globalArgs.SubCmd = SubCommand{
				Name:       "export",
				ExportArgs: exportArgs,
			}
		},
	}

	cmd.Flags().StringVarP(&exportArgs.SchemaPath, "schema", "s", "", "Path to the schema file.")
	cmd.Flags().BoolVar(&exportArgs.Raw, "raw", false, "Write stored values without decoding them.")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

// createConvertCmd creates the convert subcommand
func createConvertCmd() *cobra.Command {
	convertArgs := &ConvertArgs{}

	cmd := &cobra.Command{
		Use:   "convert [resource] [attribute]",
		Short: "Migrate stored values to a new attribute constraint",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			convertArgs.Resource = args[0]
			convertArgs.Attribute = args[1]
			globalArgs.SubCmd = SubCommand{
				Name:        "convert",
				ConvertArgs: convertArgs,
			}
		},
	}

	cmd.Flags().StringVarP(&convertArgs.SchemaPath, "schema", "s", "", "Path to the schema file holding the current attribute.")
	cmd.Flags().StringVarP(&convertArgs.Constraint, "constraint", "c", "", "New constraint. "+constraintHelp)
	cmd.Flags().BoolVar(&convertArgs.Save, "save", false, "Write the new constraint back to the schema file.")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func newRootCmd() *cobra.Command {
	cmd := createRootCmd()
	cmd.AddCommand(createEncodeCmd())
	cmd.AddCommand(createDecodeCmd())
	cmd.AddCommand(createEvaluateCmd())
	cmd.AddCommand(createQueryCmd())
	cmd.AddCommand(createImportCmd())
	cmd.AddCommand(createExportCmd())
	cmd.AddCommand(createConvertCmd())
	return cmd
}

// ParseArgs parses command line arguments and returns Args struct
func ParseArgs() (*Args, error) {
	return parseArgs(nil)
}

// parseArgs parses argv; nil means os.Args.
func parseArgs(argv []string) (*Args, error) {
	globalArgs = Args{}
	rootCmd = newRootCmd()
	if argv != nil {
		rootCmd.SetArgs(argv)
	}

	if err := rootCmd.Execute(); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return &globalArgs, nil
}
