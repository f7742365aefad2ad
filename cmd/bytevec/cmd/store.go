package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/bytevec/pkg/config"
	"github.com/ssargent/bytevec/pkg/metrics"
	"github.com/ssargent/bytevec/pkg/schema"
	"github.com/ssargent/bytevec/pkg/storage"
)

// storeCmd represents the store command
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep encoded values in a local store",
	Long: `Keep encoded values in a pebble database under storage.data_dir.
Each value is stored under a KSUID assigned when it is put.`,
}

var storePutCmd = &cobra.Command{
	Use:   "put <schema> <type> <value-file>",
	Short: "Encode a value and store it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(st *storage.Store, cfg *config.Config) error {
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
			id, err := st.Create(data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		})
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <schema> <type> <id>",
	Short: "Read and decode a stored value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(st *storage.Store, cfg *config.Config) error {
			s, err := schema.Load(args[0])
			if err != nil {
				return err
			}
			sizeType, _ := cmd.Flags().GetString("size-type")
			w, err := chooseWidth(sizeType, s, cfg)
			if err != nil {
				return err
			}
			id, err := ksuid.Parse(args[2])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[2], err)
			}
			data, err := st.Read(id)
			if err != nil {
				return err
			}
			v, rest, err := decodeValue(s, w, args[1], data, cfg.MaxDecodeSize)
			if err != nil {
				return err
			}
			out, err := render(v, data[:len(data)-len(rest)], cfg.Output.Format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		})
	},
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(st *storage.Store, _ *config.Config) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			if err := st.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Deleted %s\n", id)
			return nil
		})
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored ids",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(st *storage.Store, _ *config.Config) error {
			ids, err := st.List()
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", id, id.Time().UTC().Format(time.RFC3339))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storePutCmd, storeGetCmd, storeDeleteCmd, storeListCmd)
	storeCmd.PersistentFlags().String("data-dir", "", "Data directory (overrides storage.data_dir)")
	storeCmd.PersistentFlags().Bool("metrics", false, "Print operation metrics to stderr when done")
}

// withStore opens the configured store, runs fn and closes the store.
func withStore(cmd *cobra.Command, fn func(*storage.Store, *config.Config) error) error {
	cfg := configFrom(cmd)
	dir := cfg.Storage.DataDir
	if flag, _ := cmd.Flags().GetString("data-dir"); flag != "" {
		dir = flag
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := loggerFrom(cmd)
	reg := prometheus.NewRegistry()
	st, err := storage.Open(dir, storage.Options{
		Logger:  &logger,
		Metrics: metrics.NewMetrics(reg),
	})
	if err != nil {
		return err
	}

	runErr := fn(st, cfg)
	if err := st.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to close store: %w", err)
	}
	if show, _ := cmd.Flags().GetBool("metrics"); show {
		if err := printCounters(cmd.ErrOrStderr(), reg); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// printCounters writes every counter in reg as name{labels} value.
func printCounters(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	var lines []string
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", f.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
