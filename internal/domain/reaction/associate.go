package reaction

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/moltherm/moltherm/internal/domain/molecule"
	"github.com/moltherm/moltherm/internal/infrastructure/monitoring/logging"
	"github.com/moltherm/moltherm/pkg/errors"
)

// outputMarker is the substring every calculation output filename carries.
const outputMarker = ".out"

// copySuffix marks outputs that were copied in from another reaction
// directory by SyncOutputs.
const copySuffix = "_copy"

// ─────────────────────────────────────────────────────────────────────────────
// Association model
// ─────────────────────────────────────────────────────────────────────────────

// MoleculeFiles binds one molecule definition file to its calculation
// outputs, each classified by calculation type.  At most one output is kept
// per type; the directory convention produces exactly one.
type MoleculeFiles struct {
	ID      string
	Role    Role
	MolPath string

	// Outputs maps calculation type to the absolute path of the output file.
	Outputs map[CalcType]string
}

// Association is the associator's view of one reaction directory.
type Association struct {
	// Directory is the resolved absolute path of the reaction directory.
	Directory string

	Reactants []MoleculeFiles
	Products  []MoleculeFiles
}

// Molecules returns reactants followed by products.
func (a *Association) Molecules() []MoleculeFiles {
	out := make([]MoleculeFiles, 0, len(a.Reactants)+len(a.Products))
	out = append(out, a.Reactants...)
	return append(out, a.Products...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Associator
// ─────────────────────────────────────────────────────────────────────────────

// Associator partitions the files of a reaction directory into reactant and
// product molecules and binds each molecule's calculation outputs by the
// workflow's filename conventions.
type Associator struct {
	baseDir     string
	reactantPre string
	productPre  string
	log         logging.Logger
}

// NewAssociator constructs an Associator rooted at baseDir.  Molecule files
// starting with reactantPre belong to the reactant side, productPre to the
// product side.
func NewAssociator(baseDir, reactantPre, productPre string, log logging.Logger) *Associator {
	if log == nil {
		log = logging.Default()
	}
	return &Associator{
		baseDir:     baseDir,
		reactantPre: reactantPre,
		productPre:  productPre,
		log:         log.Named("associator"),
	}
}

// ReactantPrefix returns the configured reactant filename prefix.
func (a *Associator) ReactantPrefix() string { return a.reactantPre }

// ProductPrefix returns the configured product filename prefix.
func (a *Associator) ProductPrefix() string { return a.productPre }

// resolveDir joins dir with the base directory unless it is already absolute.
func (a *Associator) resolveDir(dir string) string {
	if dir == "" {
		return a.baseDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(a.baseDir, dir)
}

// listFiles returns the names of the regular files in dir.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDirectoryScan, "failed to enumerate reaction directory").
			WithDetail(dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Associate scans a reaction directory, partitions its .mol files into
// reactant and product roles, and binds each molecule's calculation outputs.
// A .mol file matching neither prefix is skipped with a warning; the batch
// continues.
func (a *Associator) Associate(dir string) (*Association, error) {
	path := a.resolveDir(dir)
	files, err := listFiles(path)
	if err != nil {
		return nil, err
	}

	assoc := &Association{Directory: path}
	for _, name := range files {
		if !strings.HasSuffix(name, ".mol") {
			continue
		}
		var role Role
		switch {
		case strings.HasPrefix(name, a.reactantPre):
			role = RoleReactant
		case strings.HasPrefix(name, a.productPre):
			role = RoleProduct
		default:
			a.log.Warn("skipping molecule file: cannot determine whether it is reactant or product",
				logging.String("file", name),
				logging.String("directory", path),
			)
			continue
		}

		mf := MoleculeFiles{
			ID:      molecule.ExtractID(name),
			Role:    role,
			MolPath: filepath.Join(path, name),
			Outputs: a.bindOutputs(files, path, role, molecule.ExtractID(name)),
		}
		if role == RoleReactant {
			assoc.Reactants = append(assoc.Reactants, mf)
		} else {
			assoc.Products = append(assoc.Products, mf)
		}
	}
	return assoc, nil
}

// bindOutputs selects the calculation outputs belonging to one molecule: the
// files whose names carry the role prefix, the molecule id, and the output
// marker.  Copied-in outputs (the "_copy" suffix) are rejected on the
// reactant side, where a fresh calculation in this directory always takes
// precedence over a copy.  Each output is classified by ClassifyCalcType;
// unknown names are skipped explicitly.
func (a *Associator) bindOutputs(files []string, dir string, role Role, id string) map[CalcType]string {
	prefix := a.reactantPre
	if role == RoleProduct {
		prefix = a.productPre
	}

	outputs := make(map[CalcType]string)
	for _, name := range files {
		if !strings.HasPrefix(name, prefix) ||
			!strings.Contains(name, id) ||
			!strings.Contains(name, outputMarker) {
			continue
		}
		if role == RoleReactant && strings.HasSuffix(name, copySuffix) {
			continue
		}
		ct := ClassifyCalcType(name)
		if ct == CalcUnknown {
			a.log.Warn("skipping output file with no calculation-type marker",
				logging.String("file", name),
				logging.String("molecule_id", id),
			)
			continue
		}
		if _, dup := outputs[ct]; dup {
			continue // first binding wins
		}
		outputs[ct] = filepath.Join(dir, name)
	}
	return outputs
}

// ─────────────────────────────────────────────────────────────────────────────
// QuickCheck — atom-conservation screen
// ─────────────────────────────────────────────────────────────────────────────

// QuickCheck filters dirs down to those whose reactant and product molecule
// files contain the same total number of atoms.  It is a deliberately naive
// conservation-of-atoms screen: directories that fail it are excluded from
// batch analyses, not treated as errors.  Directories whose .mol files
// cannot be parsed are likewise excluded with a warning.
func (a *Associator) QuickCheck(dirs []string) []string {
	var included []string
	for _, d := range dirs {
		assoc, err := a.Associate(d)
		if err != nil {
			a.log.Warn("excluding directory from quick check", logging.String("directory", d), logging.Err(err))
			continue
		}

		counts := [2]int{}
		ok := true
		for _, mf := range assoc.Molecules() {
			mol, err := molecule.ParseFile(mf.MolPath)
			if err != nil {
				a.log.Warn("excluding directory: unreadable molecule file",
					logging.String("file", mf.MolPath), logging.Err(err))
				ok = false
				break
			}
			counts[mf.Role] += mol.AtomCount()
		}
		if ok && counts[RoleReactant] == counts[RoleProduct] {
			included = append(included, d)
		}
	}
	return included
}

// ─────────────────────────────────────────────────────────────────────────────
// Cross-directory utilities
// ─────────────────────────────────────────────────────────────────────────────

// ReactionDirs lists the subdirectories of the base directory, skipping
// workflow block directories.
func (a *Associator) ReactionDirs() ([]string, error) {
	entries, err := os.ReadDir(a.baseDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDirectoryScan, "failed to enumerate base directory").
			WithDetail(a.baseDir)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), "block") {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// FindCommonReactants returns the reaction directories that contain a file
// referencing the given reactant id.
func (a *Associator) FindCommonReactants(rctID string) ([]string, error) {
	dirs, err := a.ReactionDirs()
	if err != nil {
		return nil, err
	}
	var results []string
	for _, d := range dirs {
		files, err := listFiles(filepath.Join(a.baseDir, d))
		if err != nil {
			a.log.Warn("skipping unreadable directory", logging.String("directory", d), logging.Err(err))
			continue
		}
		for _, f := range files {
			if strings.Contains(f, rctID) {
				results = append(results, d)
				break
			}
		}
	}
	return results, nil
}

// MapReactantsToReactions builds a map from reactant molecule id to the
// directories that use that reactant.  Only directories passing QuickCheck
// participate.  The map identifies shared reactants and the "source"
// directory where a molecule's calculation actually ran.
func (a *Associator) MapReactantsToReactions() (map[string][]string, error) {
	dirs, err := a.ReactionDirs()
	if err != nil {
		return nil, err
	}

	mapping := make(map[string][]string)
	for _, d := range a.QuickCheck(dirs) {
		assoc, err := a.Associate(d)
		if err != nil {
			continue
		}
		for _, mf := range assoc.Reactants {
			mapping[mf.ID] = append(mapping[mf.ID], d)
		}
	}
	return mapping, nil
}

// SyncOutputs copies calculation outputs between reaction directories so
// that every directory holding a molecule's .mol file also holds outputs for
// it.  A molecule is covered when any output in its own directory carries its
// id, previously-copied files included, so repeated runs are no-ops.  Copied
// files get the "_copy" suffix so the associator can distinguish them.
// Returns the number of files copied.
func (a *Associator) SyncOutputs() (int, error) {
	dirs, err := a.ReactionDirs()
	if err != nil {
		return 0, err
	}
	a.log.Info("syncing outputs across reaction directories", logging.Int("directories", len(dirs)))

	copied := 0
	for _, d := range dirs {
		assoc, err := a.Associate(d)
		if err != nil {
			a.log.Warn("skipping unreadable directory", logging.String("directory", d), logging.Err(err))
			continue
		}
		files, err := listFiles(assoc.Directory)
		if err != nil {
			continue
		}
		for _, mf := range assoc.Molecules() {
			if hasOutputFor(files, mf.ID) {
				continue
			}
			n, err := a.copyOutputsFor(dirs, d, mf)
			if err != nil {
				return copied, err
			}
			copied += n
		}
	}
	a.log.Info("output sync complete", logging.Int("files_copied", copied))
	return copied, nil
}

// hasOutputFor reports whether any output file in the directory references
// the molecule id.
func hasOutputFor(files []string, id string) bool {
	for _, f := range files {
		if strings.Contains(f, id) && strings.Contains(f, outputMarker) {
			return true
		}
	}
	return false
}

// copyOutputsFor searches the other reaction directories for outputs bound
// to the same molecule id and composition, copying them into dstDir.
func (a *Associator) copyOutputsFor(dirs []string, dstDir string, mf MoleculeFiles) (int, error) {
	want, err := molecule.ParseFile(mf.MolPath)
	if err != nil {
		a.log.Warn("cannot match outputs for unreadable molecule file",
			logging.String("file", mf.MolPath), logging.Err(err))
		return 0, nil
	}

	copied := 0
	for _, other := range dirs {
		if other == dstDir {
			continue
		}
		assoc, err := a.Associate(other)
		if err != nil {
			continue
		}
		for _, omf := range assoc.Molecules() {
			if omf.ID != mf.ID || len(omf.Outputs) == 0 {
				continue
			}
			have, err := molecule.ParseFile(omf.MolPath)
			if err != nil || !want.SameComposition(have) {
				continue
			}
			for _, src := range omf.Outputs {
				dst := filepath.Join(a.resolveDir(dstDir), filepath.Base(src)+copySuffix)
				if err := copyFile(src, dst); err != nil {
					return copied, errors.Wrap(err, errors.ErrCodeInternal, "failed to copy output file").
						WithDetail(src)
				}
				copied++
			}
			return copied, nil // one source directory is enough
		}
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
