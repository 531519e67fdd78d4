// Package molecule provides the minimal molecule model the thermochemistry
// workflow needs: parsing MDL V2000 .mol files for atom counts and element
// species, and extracting molecule identifiers from the workflow's file
// naming convention.
package molecule

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/moltherm/moltherm/pkg/errors"
)

// Atom is a single entry of a molfile atom block.  Coordinates are kept for
// completeness; the workflow itself only consumes the element symbol.
type Atom struct {
	X, Y, Z float64
	Element string
}

// Molecule is a read-only view of one .mol file.
type Molecule struct {
	// ID is the identifier extracted from the source filename.
	ID string

	// Atoms is the parsed atom block, in file order.
	Atoms []Atom
}

// AtomCount returns the number of atoms in the molecule.
func (m *Molecule) AtomCount() int {
	return len(m.Atoms)
}

// Species returns the sorted element symbols of the molecule.  Two molecules
// with equal Species lists have the same composition, which is how output
// files are matched to .mol files when copying across directories.
func (m *Molecule) Species() []string {
	out := make([]string, len(m.Atoms))
	for i, a := range m.Atoms {
		out[i] = a.Element
	}
	sort.Strings(out)
	return out
}

// SameComposition reports whether two molecules contain exactly the same
// multiset of elements.
func (m *Molecule) SameComposition(other *Molecule) bool {
	if other == nil || len(m.Atoms) != len(other.Atoms) {
		return false
	}
	a, b := m.Species(), other.Species()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Molfile parsing (V2000)
// ─────────────────────────────────────────────────────────────────────────────

// ParseFile opens and parses a V2000 molfile.  The molecule ID is extracted
// from the filename.
func ParseFile(path string) (*Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMolfileNotFound, "failed to open molfile").
			WithDetail(path)
	}
	defer f.Close()

	mol, err := parse(bufio.NewScanner(f))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMolfileParseFailed, "failed to parse molfile").
			WithDetail(path)
	}
	mol.ID = ExtractID(path)
	return mol, nil
}

// Parse parses a molfile from its raw text.  Useful for tests and for
// in-memory blocks embedded in store documents.
func Parse(text string) (*Molecule, error) {
	mol, err := parse(bufio.NewScanner(strings.NewReader(text)))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMolfileParseFailed, "failed to parse molfile block")
	}
	return mol, nil
}

// parse consumes the three-line header, the counts line, and the atom block.
// The bond block and property lines are skipped: the workflow needs only the
// composition.
func parse(sc *bufio.Scanner) (*Molecule, error) {
	for i := 0; i < 3; i++ {
		if !sc.Scan() {
			return nil, errors.New(errors.ErrCodeMolfileParseFailed, "unexpected EOF in molfile header")
		}
	}
	if !sc.Scan() {
		return nil, errors.New(errors.ErrCodeMolfileParseFailed, "missing counts line")
	}
	counts := sc.Text()
	if len(counts) < 6 {
		return nil, errors.Newf(errors.ErrCodeMolfileParseFailed, "counts line too short: %q", counts)
	}
	atomCount, err := strconv.Atoi(strings.TrimSpace(counts[0:3]))
	if err != nil {
		return nil, errors.Newf(errors.ErrCodeMolfileParseFailed, "bad atom count in counts line %q", counts)
	}

	mol := &Molecule{Atoms: make([]Atom, 0, atomCount)}
	for i := 0; i < atomCount; i++ {
		if !sc.Scan() {
			return nil, errors.Newf(errors.ErrCodeMolfileParseFailed,
				"atom block truncated at atom %d of %d", i+1, atomCount)
		}
		line := sc.Text()
		if len(line) < 34 {
			return nil, errors.Newf(errors.ErrCodeMolfileParseFailed, "atom line too short: %q", line)
		}
		x, _ := strconv.ParseFloat(strings.TrimSpace(line[0:10]), 64)
		y, _ := strconv.ParseFloat(strings.TrimSpace(line[10:20]), 64)
		z, _ := strconv.ParseFloat(strings.TrimSpace(line[20:30]), 64)
		elem := strings.TrimSpace(line[31:34])
		if elem == "" {
			return nil, errors.Newf(errors.ErrCodeMolfileParseFailed, "missing element symbol in line %q", line)
		}
		mol.Atoms = append(mol.Atoms, Atom{X: x, Y: y, Z: z, Element: elem})
	}
	return mol, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Identifier extraction
// ─────────────────────────────────────────────────────────────────────────────

// ExtractID derives the molecule identifier from a workflow filename: the
// basename with its extension stripped, reduced to the last "_"-separated
// token.  For "rct_1_173330.mol" this yields "173330"; the same rule applies
// to calculation outputs like "pro_173330_freq.out_1" once their ".out…"
// suffix is removed by the caller's naming convention.
func ExtractID(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	parts := strings.Split(base, "_")
	return parts[len(parts)-1]
}
