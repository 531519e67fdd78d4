package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltherm/moltherm/internal/interfaces/cli"
)

func molblock(elements ...string) string {
	var b strings.Builder
	b.WriteString("test molecule\n  MolTherm\n\n")
	fmt.Fprintf(&b, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(elements), 0)
	for i, el := range elements {
		fmt.Fprintf(&b, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
			float64(i), 0.0, 0.0, el)
	}
	b.WriteString("M  END\n")
	return b.String()
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// writeReactionDir builds a balanced reaction with opt and freq outputs.
func writeReactionDir(t *testing.T, base, name string) string {
	t.Helper()
	dir := filepath.Join(base, name)
	require.NoError(t, os.Mkdir(dir, 0o755))
	write(t, dir, "rct_1_10.mol", molblock("C", "O"))
	write(t, dir, "pro_20.mol", molblock("C", "O"))
	write(t, dir, "rct_1_10_freq.out", " Total Enthalpy:  10.0000 kcal/mol\n Total Entropy:  30.0000 cal/mol.K\n")
	write(t, dir, "rct_1_10_opt.out", " Final energy is  -100.0\n")
	write(t, dir, "pro_20_freq.out", " Total Enthalpy:  12.0000 kcal/mol\n Total Entropy:  20.0000 cal/mol.K\n")
	write(t, dir, "pro_20_opt.out", " Final energy is  -100.2\n")
	return dir
}

// run executes the CLI with a clean environment rooted at base.
func run(t *testing.T, base string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MOLTHERM_WORKFLOW_BASE_DIR", base)

	var out bytes.Buffer
	root := cli.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	base := t.TempDir()
	writeReactionDir(t, base, "rxn_ok")

	bad := filepath.Join(base, "rxn_bad")
	require.NoError(t, os.Mkdir(bad, 0o755))
	write(t, bad, "rct_1_30.mol", molblock("C", "O", "H"))
	write(t, bad, "pro_40.mol", molblock("C"))

	out, err := run(t, base, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "rxn_ok")
	assert.NotContains(t, out, "rxn_bad")
}

func TestCheckCommand_ReactantLookup(t *testing.T) {
	base := t.TempDir()
	writeReactionDir(t, base, "rxn_a")
	writeReactionDir(t, base, "rxn_b")

	out, err := run(t, base, "check", "--reactant", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "rxn_a")
	assert.Contains(t, out, "rxn_b")
}

func TestRecordCommand_ToFile(t *testing.T) {
	base := t.TempDir()
	dir := writeReactionDir(t, base, "rxn_ok")

	out, err := run(t, base, "record", "rxn_ok",
		"--opt", "method=wb97x-d,basis=6-311++g(d,p),solvent_method=smd,solvent=water")
	require.NoError(t, err)
	assert.Contains(t, out, "ΔH")

	raw, err := os.ReadFile(filepath.Join(dir, "thermo.txt"))
	require.NoError(t, err)
	report := string(raw)
	assert.Contains(t, report, "Directory: "+dir)
	assert.Contains(t, report, "Optimization Input: {method: wb97x-d, basis: 6-311++g(d,p), solvent_method: smd, solvent: water}")
	assert.Contains(t, report, "Frequency Input: null")
}

func TestRecordCommand_RequiresDirectory(t *testing.T) {
	_, err := run(t, t.TempDir(), "record")
	assert.Error(t, err)
}

func TestRecordCommand_RejectsBadInputFlag(t *testing.T) {
	base := t.TempDir()
	writeReactionDir(t, base, "rxn_ok")

	_, err := run(t, base, "record", "rxn_ok", "--opt", "method=only")
	assert.Error(t, err)
}

func TestSyncCommand(t *testing.T) {
	base := t.TempDir()
	writeReactionDir(t, base, "rxn_src")

	dst := filepath.Join(base, "rxn_dst")
	require.NoError(t, os.Mkdir(dst, 0o755))
	write(t, dst, "rct_1_10.mol", molblock("C", "O"))

	out, err := run(t, base, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Number of files copied: 2")
}

func TestRegressCommand(t *testing.T) {
	base := t.TempDir()
	csv := filepath.Join(base, "data.csv")
	content := "x,y\n1,2\n2,4\n3,6\n4,8\n"
	require.NoError(t, os.WriteFile(csv, []byte(content), 0o644))

	out, err := run(t, base, "regress", "--data", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "intercept: ")
	assert.Contains(t, out, "x: ")
	assert.Contains(t, out, "r_squared: 1.000000")
}
