package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"github.com/ssargent/bytevec/pkg/bytevec"
	"github.com/ssargent/bytevec/pkg/config"
	"github.com/ssargent/bytevec/pkg/schema"
	"gopkg.in/yaml.v3"
)

// cborEncMode uses Core Deterministic Encoding so the same decoded value
// always transcodes to the same CBOR bytes.
var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("bytevec: CBOR encoder initialization failed: " + err.Error())
	}
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <schema> <type> <file>",
	Short: "Decode an encoded value and print it",
	Long: `Decode a value of the given schema type from a file (or - for stdin)
and print it as YAML, JSON, CBOR or an annotated hex dump.

Input longer than --max bytes is rejected before decoding. --max defaults to
the configured max_decode_size; 0 disables the check.

Examples:
  bytevec decode employees.yaml Employee alice.bin
  bytevec decode employees.yaml Employee alice.hex --hex --format json`,
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
		asHex, _ := cmd.Flags().GetBool("hex")
		data, err := readEncoded(args[2], cmd.InOrStdin(), asHex)
		if err != nil {
			return err
		}

		limit := cfg.MaxDecodeSize
		if cmd.Flags().Changed("max") {
			limit, _ = cmd.Flags().GetUint64("max")
		}
		v, rest, err := decodeValue(s, w, args[1], data, limit)
		if err != nil {
			return err
		}
		logger := loggerFrom(cmd)
		if len(rest) > 0 {
			logger.Warn().Int("trailing_bytes", len(rest)).Msg("input has bytes after the value")
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = cfg.Output.Format
		}
		out, err := render(v, data[:len(data)-len(rest)], format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("hex", false, "Read hex instead of raw bytes")
	decodeCmd.Flags().Uint64("max", 0, "Reject input longer than this many bytes (0 disables)")
	decodeCmd.Flags().String("format", "", "Output format: yaml, json, cbor or hex")
}

// decodeValue decodes typeExpr from data, rejecting data longer than limit
// and counts above it unless limit is 0. It returns the bytes after the value.
func decodeValue(s *schema.Schema, w bytevec.Width, typeExpr string, data []byte, limit uint64) (any, []byte, error) {
	if limit == 0 {
		v, rest, err := s.DecodeValue(w, typeExpr, data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", typeExpr, err)
		}
		return v, rest, nil
	}
	if err := bytevec.CheckLimit(len(data), limit); err != nil {
		return nil, nil, fmt.Errorf("input rejected: %w", err)
	}
	v, rest, err := s.DecodeValueMax(w, typeExpr, data, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", typeExpr, err)
	}
	return v, rest, nil
}

// render prints a decoded value. raw is the encoding the value came from,
// used by the hex format.
func render(v any, raw []byte, format string) ([]byte, error) {
	switch format {
	case config.FormatYAML:
		return yaml.Marshal(v)
	case config.FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case config.FormatCBOR:
		return cborEncMode.Marshal(schema.Plain(v))
	case config.FormatHex:
		return []byte(hex.Dump(raw)), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
