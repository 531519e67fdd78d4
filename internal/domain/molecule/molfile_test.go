package molecule_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltherm/moltherm/internal/domain/molecule"
	"github.com/moltherm/moltherm/pkg/errors"
)

// molblock builds a minimal V2000 molfile for the given element symbols.
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

func writeMol(t *testing.T, dir, name string, elements ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(molblock(elements...)), 0o644))
	return path
}

func TestParse(t *testing.T) {
	mol, err := molecule.Parse(molblock("C", "C", "O", "H"))
	require.NoError(t, err)

	assert.Equal(t, 4, mol.AtomCount())
	assert.Equal(t, []string{"C", "C", "H", "O"}, mol.Species())
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := writeMol(t, dir, "rct_1_173330.mol", "C", "O")

	mol, err := molecule.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "173330", mol.ID)
	assert.Equal(t, 2, mol.AtomCount())
}

func TestParseFile_Missing(t *testing.T) {
	_, err := molecule.ParseFile(filepath.Join(t.TempDir(), "absent.mol"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeMolfileNotFound))
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"header only", "a\nb\nc\n"},
		{"short counts line", "a\nb\nc\nxx\n"},
		{"truncated atom block", "a\nb\nc\n  2  0  0\n    0.0000    0.0000    0.0000 C  \n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := molecule.Parse(tc.text)
			assert.True(t, errors.IsCode(err, errors.ErrCodeMolfileParseFailed))
		})
	}
}

func TestSameComposition(t *testing.T) {
	a, err := molecule.Parse(molblock("C", "O", "H", "H"))
	require.NoError(t, err)
	b, err := molecule.Parse(molblock("H", "C", "H", "O"))
	require.NoError(t, err)
	c, err := molecule.Parse(molblock("C", "O", "H"))
	require.NoError(t, err)

	assert.True(t, a.SameComposition(b))
	assert.False(t, a.SameComposition(c))
	assert.False(t, a.SameComposition(nil))
}

func TestExtractID(t *testing.T) {
	cases := map[string]string{
		"rct_1_173330.mol":        "173330",
		"/data/rxn/pro_88811.mol": "88811",
		"pro_88811.mol":           "88811",
		"plain.mol":               "plain",
		"rct_2_44.mol.backup":     "44", // first dot wins, like the convention
	}
	for in, want := range cases {
		assert.Equal(t, want, molecule.ExtractID(in), "input %q", in)
	}
}
