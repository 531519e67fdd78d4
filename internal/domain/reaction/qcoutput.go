package reaction

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/moltherm/moltherm/pkg/errors"
)

// Marker strings identifying the quantities of interest in QChem output
// text.  Frequency jobs report thermodynamic corrections, optimization jobs
// report the converged electronic energy, and single-point jobs report the
// final-basis total energy.
const (
	enthalpyMarker  = "Total Enthalpy"
	entropyMarker   = "Total Entropy"
	optEnergyMarker = "Final energy is"
	spEnergyMarker  = "Total energy in the final basis set ="
)

// ParseOutput scrapes the energetic quantities from one QChem output file.
// Quantities whose marker never appears stay zero; a file may legitimately
// contain only a subset.  When a marker repeats, the last occurrence wins,
// matching how multi-step jobs report their converged values.
func ParseOutput(path string) (CalcResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return CalcResult{}, errors.Wrap(err, errors.ErrCodeOutputParseFailed, "failed to open output file").
			WithDetail(path)
	}
	defer f.Close()

	var res CalcResult
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.Contains(line, enthalpyMarker):
			if v, ok := floatAfter(line, enthalpyMarker); ok {
				res.Enthalpy = v
			}
		case strings.Contains(line, entropyMarker):
			if v, ok := floatAfter(line, entropyMarker); ok {
				res.Entropy = v
			}
		case strings.Contains(line, optEnergyMarker):
			if v, ok := floatAfter(line, optEnergyMarker); ok {
				res.FinalEnergy = v
			}
		case strings.Contains(line, spEnergyMarker):
			if v, ok := floatAfter(line, spEnergyMarker); ok {
				res.FinalEnergy = v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return CalcResult{}, errors.Wrap(err, errors.ErrCodeOutputParseFailed, "failed to read output file").
			WithDetail(path)
	}
	return res, nil
}

// floatAfter extracts the first parseable float following the marker, e.g.
// "Total Enthalpy:       24.675 kcal/mol" yields 24.675.
func floatAfter(line, marker string) (float64, bool) {
	rest := line[strings.Index(line, marker)+len(marker):]
	rest = strings.TrimLeft(rest, ": \t")
	for _, tok := range strings.Fields(rest) {
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// ParseMoleculeOutputs scrapes every bound output of one molecule into a
// Results map keyed by calculation type.
func ParseMoleculeOutputs(mf MoleculeFiles) (map[CalcType]CalcResult, error) {
	results := make(map[CalcType]CalcResult, len(mf.Outputs))
	for ct, path := range mf.Outputs {
		res, err := ParseOutput(path)
		if err != nil {
			return nil, err
		}
		results[ct] = res
	}
	return results, nil
}
