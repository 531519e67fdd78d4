package reaction_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltherm/moltherm/internal/domain/reaction"
	"github.com/moltherm/moltherm/pkg/errors"
)

func sampleRecord(dir string) *reaction.ReactionRecord {
	tc := -250.0
	return &reaction.ReactionRecord{
		Directory:   dir,
		ReactantIDs: []string{"10"},
		ProductIDs:  []string{"20"},
		Inputs: reaction.CalcInputs{
			Opt: &reaction.CalcInput{
				Method: "wb97x-d", Basis: "6-311++g(d,p)",
				Solvent: reaction.Solvent{Model: reaction.SolventSMD, Name: "water"},
			},
			Freq: &reaction.CalcInput{Method: "wb97x-d", Basis: "6-311++g(d,p)"},
		},
		Thermo: reaction.ThermoResult{
			EnthalpyJ:    10460.0,
			EntropyJ:     -41.84,
			CriticalTemp: &tc,
		},
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecord(dir)
	require.NoError(t, reaction.WriteReport(rec, "thermo.txt"))

	raw, err := os.ReadFile(filepath.Join(dir, "thermo.txt"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Directory: "+dir, lines[0])
	assert.Equal(t, "Optimization Input: {method: wb97x-d, basis: 6-311++g(d,p), solvent_method: smd, solvent: water}", lines[1])
	assert.Equal(t, "Frequency Input: {method: wb97x-d, basis: 6-311++g(d,p), solvent_method: none}", lines[2])
	assert.Equal(t, "Single-Point Input: null", lines[3])
	assert.Equal(t, "Reaction Enthalpy: 10460", lines[4])
	assert.Equal(t, "Reaction Entropy: -41.84", lines[5])
	assert.Equal(t, "Critical/Switching Temperature: -250", lines[6])
}

func TestReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecord(dir)
	require.NoError(t, reaction.WriteReport(rec, "thermo.txt"))

	sum, err := reaction.ParseReport(filepath.Join(dir, "thermo.txt"))
	require.NoError(t, err)

	assert.Equal(t, dir, sum.Directory)
	assert.Equal(t, rec.Thermo.EnthalpyJ, sum.EnthalpyJ)
	assert.Equal(t, rec.Thermo.EntropyJ, sum.EntropyJ)
	require.NotNil(t, sum.CriticalTemp)
	assert.Equal(t, *rec.Thermo.CriticalTemp, *sum.CriticalTemp)
}

func TestReportRoundTrip_NullCriticalTemp(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecord(dir)
	rec.Thermo.EntropyJ = 0
	rec.Thermo.CriticalTemp = nil
	require.NoError(t, reaction.WriteReport(rec, "thermo.txt"))

	sum, err := reaction.ParseReport(filepath.Join(dir, "thermo.txt"))
	require.NoError(t, err)
	assert.Nil(t, sum.CriticalTemp)
}

func TestParseReport_Missing(t *testing.T) {
	_, err := reaction.ParseReport(filepath.Join(t.TempDir(), "absent.txt"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportParseFailed))
}

func TestParseReport_Truncated(t *testing.T) {
	path := writeFile(t, t.TempDir(), "thermo.txt", "Directory: /x\n")
	_, err := reaction.ParseReport(path)
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportParseFailed))
}

func TestParseReport_BadValue(t *testing.T) {
	text := "Directory: /x\nReaction Enthalpy: not-a-number\nReaction Entropy: 1\nCritical/Switching Temperature: null\n"
	path := writeFile(t, t.TempDir(), "thermo.txt", text)
	_, err := reaction.ParseReport(path)
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportParseFailed))
}
