package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/bytevec/pkg/codegen"
	"github.com/ssargent/bytevec/pkg/config"
	"github.com/ssargent/bytevec/pkg/schema"
)

// genCmd represents the gen command
var genCmd = &cobra.Command{
	Use:   "gen <schema>",
	Short: "Generate Go types and codecs from a schema",
	Long: `Generate Go source from a schema: one struct per schema struct with
MarshalByteVec and UnmarshalByteVec methods that encode fields in order.

The output defaults to the schema path with its extension replaced by the
configured codegen suffix.

Example:
  bytevec gen employees.yaml -o employees_bytevec.go`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		pkg, _ := cmd.Flags().GetString("package")

		path, err := generate(args[0], out, pkg, configFrom(cmd))
		if err != nil {
			return err
		}
		logger := loggerFrom(cmd)
		logger.Info().Str("schema", args[0]).Str("output", path).Msg("generated code")
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genCmd)
	genCmd.Flags().StringP("output", "o", "", "Output file")
	genCmd.Flags().String("package", "", "Go package name (overrides the schema and config)")
}

// generate writes the code for schemaPath and returns the output path.
func generate(schemaPath, out, pkg string, cfg *config.Config) (string, error) {
	s, err := schema.Load(schemaPath)
	if err != nil {
		return "", err
	}
	if pkg == "" {
		pkg = cfg.Codegen.Package
	}
	if out == "" {
		suffix := cfg.Codegen.Suffix
		if suffix == "" {
			suffix = ".go"
		}
		out = strings.TrimSuffix(schemaPath, filepath.Ext(schemaPath)) + suffix
	}

	src, err := codegen.Generate(s, codegen.Options{Package: pkg, Source: filepath.Base(schemaPath)})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(out, src, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}
	return out, nil
}
