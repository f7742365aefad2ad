package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/bytevec/pkg/bytevec"
	"github.com/ssargent/bytevec/pkg/config"
	"github.com/ssargent/bytevec/pkg/schema"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode <schema> <type> <value-file>",
	Short: "Encode a YAML or JSON value",
	Long: `Encode a value read from a YAML or JSON file (or - for stdin) as the
given schema type. The type may be a struct name or any type expression,
for example "vec<Employee>" or "map<string, u32>".

Examples:
  bytevec encode employees.yaml Employee alice.yaml -o alice.bin
  echo '[1, 2, 3]' | bytevec encode employees.yaml 'vec<u16>' - --hex`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		s, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		sizeType, _ := cmd.Flags().GetString("size-type")
		w, err := chooseWidth(sizeType, s, cfg)
		if err != nil {
			return err
		}
		input, err := readInput(args[2], cmd.InOrStdin())
		if err != nil {
			return err
		}

		data, err := encodeValue(s, w, args[1], input)
		if err != nil {
			return err
		}
		logger := loggerFrom(cmd)
		logger.Debug().Str("type", args[1]).Stringer("size_type", w).Int("bytes", len(data)).Msg("encoded value")

		asHex, _ := cmd.Flags().GetBool("hex")
		out, _ := cmd.Flags().GetString("output")
		return writeEncoded(cmd, out, data, asHex || cfg.Output.Format == config.FormatHex)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	encodeCmd.Flags().Bool("hex", false, "Write hex instead of raw bytes")
}

// encodeValue parses a YAML or JSON document and encodes it as typeExpr.
func encodeValue(s *schema.Schema, w bytevec.Width, typeExpr string, input []byte) ([]byte, error) {
	v, err := parseValue(input)
	if err != nil {
		return nil, err
	}
	data, err := s.EncodeValue(w, typeExpr, v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", typeExpr, err)
	}
	return data, nil
}

func writeEncoded(cmd *cobra.Command, out string, data []byte, asHex bool) error {
	if asHex {
		data = []byte(hex.EncodeToString(data) + "\n")
	}
	if out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}
