package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moltherm/moltherm/internal/domain/reaction"
	"github.com/moltherm/moltherm/pkg/errors"
)

var (
	recordUseDB bool
	recordToDB  bool
	recordFile  string
	recordOpt   string
	recordFreq  string
	recordSP    string
)

// NewRecordCmd creates the record command: aggregate one or more reaction
// directories and persist the results.
func NewRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <directory> [directories...]",
		Short: "Aggregate reaction thermochemistry and record the results",
		Long: `Aggregate each reaction directory into reaction enthalpy, entropy, and
critical temperature, then record the result.

By default the data is gathered by scraping calculation output files and
written to the per-directory report file.  With --use-db, stored task
documents are used instead; with --to-db, results are appended to the
thermo store rather than written to a report.

Calculation inputs can be supplied as "key=value" lists, e.g.
  --opt "method=wb97x-d,basis=6-311++g(d,p),solvent_method=smd,solvent=water"
Inputs left unset are derived from task documents when --use-db is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRecord,
	}

	f := cmd.Flags()
	f.BoolVar(&recordUseDB, "use-db", false, "gather data from stored task documents instead of output files")
	f.BoolVar(&recordToDB, "to-db", false, "append results to the thermo store instead of the report file")
	f.StringVar(&recordFile, "file", "", "report filename (default: workflow.report_filename)")
	f.StringVar(&recordOpt, "opt", "", "optimization input as key=value list")
	f.StringVar(&recordFreq, "freq", "", "frequency input as key=value list")
	f.StringVar(&recordSP, "sp", "", "single-point input as key=value list")
	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	app := appFromCommand(cmd)
	defer app.Close()

	inputs, err := suppliedInputs()
	if err != nil {
		return err
	}

	source := reaction.SourceFiles
	if recordUseDB {
		source = reaction.SourceStore
	}
	needStore := recordUseDB || recordToDB

	analyzer, err := app.analyzer(cmd.Context(), needStore)
	if err != nil {
		return err
	}

	filename := recordFile
	if filename == "" {
		filename = app.Config.Workflow.ReportFilename
	}

	for _, dir := range args {
		var rec *reaction.ReactionRecord
		if recordToDB {
			rec, err = analyzer.RecordToStore(cmd.Context(), dir, source, inputs)
		} else {
			rec, err = analyzer.RecordToFile(cmd.Context(), dir, source, inputs, filename)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ΔH = %.2f J/mol, ΔS = %.2f J/mol·K\n",
			rec.Directory, rec.Thermo.EnthalpyJ, rec.Thermo.EntropyJ)
	}
	return nil
}

// suppliedInputs parses the --opt/--freq/--sp flags.
func suppliedInputs() (reaction.CalcInputs, error) {
	var inputs reaction.CalcInputs
	for _, spec := range []struct {
		raw  string
		flag string
		dst  **reaction.CalcInput
	}{
		{recordOpt, "opt", &inputs.Opt},
		{recordFreq, "freq", &inputs.Freq},
		{recordSP, "sp", &inputs.SP},
	} {
		if spec.raw == "" {
			continue
		}
		ci, err := parseCalcInput(spec.raw)
		if err != nil {
			return inputs, errors.Wrap(err, errors.ErrCodeInvalidParam,
				fmt.Sprintf("invalid --%s value", spec.flag))
		}
		*spec.dst = ci
	}
	return inputs, nil
}

// parseCalcInput parses "method=...,basis=...[,solvent_method=...[,solvent=...]]".
// Commas inside parentheses belong to the value, so basis sets like
// "6-311++g(d,p)" survive intact.
func parseCalcInput(raw string) (*reaction.CalcInput, error) {
	ci := &reaction.CalcInput{}
	var solventMethod, solvent string
	for _, pair := range splitTopLevel(raw) {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		switch key {
		case "method":
			ci.Method = value
		case "basis":
			ci.Basis = value
		case "solvent_method":
			solventMethod = value
		case "solvent":
			solvent = value
		default:
			return nil, fmt.Errorf("unknown key %q", key)
		}
	}
	if ci.Method == "" || ci.Basis == "" {
		return nil, fmt.Errorf("method and basis are required")
	}
	model := reaction.SolventModelFromString(solventMethod)
	if model != reaction.SolventNone {
		ci.Solvent = reaction.Solvent{Model: model, Name: solvent}
	}
	return ci, nil
}

// splitTopLevel splits on commas outside parentheses.
func splitTopLevel(raw string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range raw {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, raw[start:])
}
