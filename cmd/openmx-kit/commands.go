package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/openmx-go/openmx/dos"
	"github.com/openmx-go/openmx/input"
	"github.com/openmx-go/openmx/report"
	"github.com/openmx-go/openmx/schema"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <parameters.yaml>",
		Short: "Check a parameter file against the keyword schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var params map[string]any
			if err := yaml.Unmarshal(raw, &params); err != nil {
				return fmt.Errorf("decode parameters: %w", err)
			}
			m, err := schema.Normalize(params, "parameters")
			if err != nil {
				return err
			}
			if err := schema.Validate(m, schema.Default()); err != nil {
				return err
			}
			logger.Info("parameters valid", zap.Int("keywords", len(m)))
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var outPath string
	var manifest bool
	cmd := &cobra.Command{
		Use:   "render <job.yaml>",
		Short: "Compose an input deck from a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, opts, err := loadJobFile(args[0])
			if err != nil {
				return err
			}
			deck, err := input.Compose(in, opts)
			if err != nil {
				return err
			}
			if manifest {
				return encodeJSON(cmd, deck)
			}
			if outPath != "" {
				return os.WriteFile(outPath, []byte(deck.Text), 0o644)
			}
			fmt.Fprint(cmd.OutOrStdout(), deck.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the deck to a file instead of stdout")
	cmd.Flags().BoolVar(&manifest, "manifest", false, "emit the deck with its staging manifests as JSON")
	return cmd
}

func newExtractCmd() *cobra.Command {
	var mdType string
	cmd := &cobra.Command{
		Use:   "extract <run.log>",
		Short: "Extract results from an OpenMX run log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			rec, err := report.Parse(f, report.Options{MDType: mdType})
			if err != nil {
				return err
			}
			return encodeJSON(cmd, rec)
		},
	}
	cmd.Flags().StringVar(&mdType, "md-type", "", "MD.Type of the run (empty or nomd for static)")
	return cmd
}

func newDosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dos",
		Short: "DosMain post-processing helpers",
	}
	cmd.AddCommand(newDosControlCmd(), newDosParseCmd())
	return cmd
}

func newDosControlCmd() *cobra.Command {
	var (
		method     string
		broadening float64
		system     string
	)
	cmd := &cobra.Command{
		Use:   "control",
		Short: "Print the DosMain stdin control file and retrieve list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dos.Request{Spectrum: dos.TotalDOS, Broadening: broadening}
			switch method {
			case "tetrahedron":
				req.Method = dos.Tetrahedron
			case "gaussian":
				req.Method = dos.Gaussian
			default:
				return fmt.Errorf("unknown method %q (want tetrahedron or gaussian)", method)
			}
			ctl, err := req.ControlFile()
			if err != nil {
				return err
			}
			retrieve, err := req.RetrieveList(system)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ctl)
			logger.Info("dosmain control rendered", zap.Strings("retrieve", retrieve))
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", "tetrahedron", "integration method: tetrahedron or gaussian")
	cmd.Flags().Float64Var(&broadening, "broadening", 0, "gaussian broadening in eV")
	cmd.Flags().StringVar(&system, "system", "openmx", "upstream System.Name")
	return cmd
}

func newDosParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file.DOS.Tetrahedron>",
		Short: "Parse a DosMain result table and summarize it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			table, err := dos.ParseTable(f)
			if err != nil {
				return err
			}
			energies := table.Energies()
			summary := map[string]any{
				"rows":       table.Rows(),
				"energy_min": energies[0],
				"energy_max": energies[len(energies)-1],
				"energies":   energies,
				"dos":        table.DOS(0),
			}
			return encodeJSON(cmd, summary)
		},
	}
}

func encodeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
