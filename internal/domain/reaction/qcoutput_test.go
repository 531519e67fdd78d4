package reaction_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltherm/moltherm/internal/domain/reaction"
	"github.com/moltherm/moltherm/pkg/errors"
)

const freqOutput = `Running Job 1 of 1
 ...
 Total Enthalpy:       24.6750 kcal/mol
 Total Entropy:        52.9100 cal/mol.K
`

const optOutput = ` Optimization Cycle:  12
 ...
 Final energy is   -385.8247124950
`

const spOutput = ` ...
 Total energy in the final basis set =     -385.9012330718
`

func TestParseOutput_Freq(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rct_1_10_freq.out", freqOutput)

	res, err := reaction.ParseOutput(path)
	require.NoError(t, err)
	assert.InDelta(t, 24.675, res.Enthalpy, 1e-9)
	assert.InDelta(t, 52.91, res.Entropy, 1e-9)
	assert.Zero(t, res.FinalEnergy)
}

func TestParseOutput_Opt(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rct_1_10_opt.out", optOutput)

	res, err := reaction.ParseOutput(path)
	require.NoError(t, err)
	assert.InDelta(t, -385.8247124950, res.FinalEnergy, 1e-12)
	assert.Zero(t, res.Enthalpy)
}

func TestParseOutput_SP(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rct_1_10_sp.out", spOutput)

	res, err := reaction.ParseOutput(path)
	require.NoError(t, err)
	assert.InDelta(t, -385.9012330718, res.FinalEnergy, 1e-12)
}

func TestParseOutput_LastOccurrenceWins(t *testing.T) {
	text := " Final energy is   -100.0\n garbage\n Final energy is   -200.5\n"
	path := writeFile(t, t.TempDir(), "rct_1_10_opt.out", text)

	res, err := reaction.ParseOutput(path)
	require.NoError(t, err)
	assert.InDelta(t, -200.5, res.FinalEnergy, 1e-9)
}

func TestParseOutput_MissingMarkersAreZero(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rct_1_10_opt.out", "nothing of interest here\n")

	res, err := reaction.ParseOutput(path)
	require.NoError(t, err)
	assert.Zero(t, res)
}

func TestParseOutput_MissingFile(t *testing.T) {
	_, err := reaction.ParseOutput(filepath.Join(t.TempDir(), "absent.out"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeOutputParseFailed))
}

func TestParseMoleculeOutputs(t *testing.T) {
	dir := t.TempDir()
	mf := reaction.MoleculeFiles{
		ID:   "10",
		Role: reaction.RoleReactant,
		Outputs: map[reaction.CalcType]string{
			reaction.CalcFrequency:    writeFile(t, dir, "rct_1_10_freq.out", freqOutput),
			reaction.CalcOptimization: writeFile(t, dir, "rct_1_10_opt.out", optOutput),
		},
	}

	results, err := reaction.ParseMoleculeOutputs(mf)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.InDelta(t, 24.675, results[reaction.CalcFrequency].Enthalpy, 1e-9)
	assert.InDelta(t, -385.8247124950, results[reaction.CalcOptimization].FinalEnergy, 1e-12)
}
