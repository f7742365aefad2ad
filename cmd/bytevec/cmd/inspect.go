package cmd

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/ssargent/bytevec/pkg/bytevec"
	"github.com/ssargent/bytevec/pkg/schema"
	"github.com/zeebo/blake3"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <schema> <type> <file>",
	Short: "Report on an encoded buffer",
	Long: `Decode a buffer as the given type and report its length, size type,
how many bytes the value used, how many trailing bytes were left over, and
the BLAKE3 digest of the whole buffer. Decode failures are reported with the
offending size relation instead of aborting.

Example:
  bytevec inspect employees.yaml Employee alice.bin`,
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

		report, err := inspect(s, w, args[1], data)
		if err != nil {
			return err
		}
		report.print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("hex", false, "Read hex instead of raw bytes")
}

type inspection struct {
	Type      string
	Width     bytevec.Width
	Length    int
	Consumed  int
	Trailing  int
	Digest    [32]byte
	DecodeErr error
}

// inspect decodes data as typeExpr and summarizes the buffer. Schema and
// type errors are returned; wire errors are kept in the report.
func inspect(s *schema.Schema, w bytevec.Width, typeExpr string, data []byte) (*inspection, error) {
	t, err := s.ResolveType(typeExpr)
	if err != nil {
		return nil, err
	}
	report := &inspection{
		Type:   t.String(),
		Width:  w,
		Length: len(data),
		Digest: blake3.Sum256(data),
	}
	d := bytevec.NewDecoder(data, w)
	if _, err := schema.Decode(d, t); err != nil {
		report.DecodeErr = err
		return report, nil
	}
	report.Consumed = d.Offset()
	report.Trailing = d.Remaining()
	return report, nil
}

func (r *inspection) print(w io.Writer) {
	fmt.Fprintf(w, "type:      %s\n", r.Type)
	fmt.Fprintf(w, "size type: %s\n", r.Width)
	fmt.Fprintf(w, "length:    %d\n", r.Length)
	fmt.Fprintf(w, "blake3:    %s\n", hex.EncodeToString(r.Digest[:]))
	if r.DecodeErr != nil {
		fmt.Fprintf(w, "error:     %v\n", r.DecodeErr)
		return
	}
	fmt.Fprintf(w, "consumed:  %d\n", r.Consumed)
	fmt.Fprintf(w, "trailing:  %d\n", r.Trailing)
}
