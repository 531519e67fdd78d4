package reaction

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moltherm/moltherm/pkg/errors"
)

// Report line labels, in file order.
const (
	reportDirectoryLabel = "Directory: "
	reportOptLabel       = "Optimization Input: "
	reportFreqLabel      = "Frequency Input: "
	reportSPLabel        = "Single-Point Input: "
	reportEnthalpyLabel  = "Reaction Enthalpy: "
	reportEntropyLabel   = "Reaction Entropy: "
	reportTCritLabel     = "Critical/Switching Temperature: "
)

// reportFloat renders a float with the shortest representation that parses
// back to the same value, so reports round-trip exactly.
func reportFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteReport serializes a reaction record into the seven-line flat-file
// report inside the reaction directory, overwriting any previous report.
// Molecule ids are not written; the store is the only sink that keeps them.
func WriteReport(rec *ReactionRecord, filename string) error {
	var b strings.Builder
	b.WriteString(reportDirectoryLabel + rec.Directory + "\n")
	b.WriteString(reportOptLabel + rec.Inputs.Opt.String() + "\n")
	b.WriteString(reportFreqLabel + rec.Inputs.Freq.String() + "\n")
	b.WriteString(reportSPLabel + rec.Inputs.SP.String() + "\n")
	b.WriteString(reportEnthalpyLabel + reportFloat(rec.Thermo.EnthalpyJ) + "\n")
	b.WriteString(reportEntropyLabel + reportFloat(rec.Thermo.EntropyJ) + "\n")
	if rec.Thermo.CriticalTemp == nil {
		b.WriteString(reportTCritLabel + "null\n")
	} else {
		b.WriteString(reportTCritLabel + reportFloat(*rec.Thermo.CriticalTemp) + "\n")
	}

	path := filepath.Join(rec.Directory, filename)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportWriteFailed, "failed to write thermo report").
			WithDetail(path)
	}
	return nil
}

// ReportSummary is the machine-readable content recovered from a report
// file: the reaction directory and the aggregated values.  The input lines
// are human-oriented and are not parsed back.
type ReportSummary struct {
	Directory    string
	EnthalpyJ    float64
	EntropyJ     float64
	CriticalTemp *float64
}

// ParseReport reads a report file written by WriteReport.
func ParseReport(path string) (*ReportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReportParseFailed, "failed to open thermo report").
			WithDetail(path)
	}
	defer f.Close()

	sum := &ReportSummary{}
	seen := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, reportDirectoryLabel):
			sum.Directory = strings.TrimPrefix(line, reportDirectoryLabel)
			seen++
		case strings.HasPrefix(line, reportEnthalpyLabel):
			if sum.EnthalpyJ, err = parseReportFloat(line, reportEnthalpyLabel); err != nil {
				return nil, err
			}
			seen++
		case strings.HasPrefix(line, reportEntropyLabel):
			if sum.EntropyJ, err = parseReportFloat(line, reportEntropyLabel); err != nil {
				return nil, err
			}
			seen++
		case strings.HasPrefix(line, reportTCritLabel):
			raw := strings.TrimSpace(strings.TrimPrefix(line, reportTCritLabel))
			if raw != "null" {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, errors.Newf(errors.ErrCodeReportParseFailed,
						"bad critical temperature %q", raw)
				}
				sum.CriticalTemp = &v
			}
			seen++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReportParseFailed, "failed to read thermo report").
			WithDetail(path)
	}
	if seen < 4 {
		return nil, errors.New(errors.ErrCodeReportParseFailed, "report is missing required lines").
			WithDetail(path)
	}
	return sum, nil
}

func parseReportFloat(line, label string) (float64, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(line, label))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Newf(errors.ErrCodeReportParseFailed, "bad value in report line %q", line)
	}
	return v, nil
}
