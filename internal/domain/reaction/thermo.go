package reaction

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/moltherm/moltherm/internal/domain/molecule"
	"github.com/moltherm/moltherm/internal/infrastructure/monitoring/logging"
	"github.com/moltherm/moltherm/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Task documents
// ─────────────────────────────────────────────────────────────────────────────

// TaskCalcInput is the input sub-document of one calculation step of a task.
type TaskCalcInput struct {
	// Rem holds the job's rem section: method, basis, solvent_method.
	Rem map[string]string `json:"rem"`

	// SMX carries the solvent name for smd/sm12 jobs.
	SMX map[string]string `json:"smx,omitempty"`

	// Solvent carries the solvent name for pcm jobs.
	Solvent string `json:"solvent,omitempty"`
}

// TaskCalc is one calculation step of a stored task document, newest first.
type TaskCalc struct {
	Type          string        `json:"type"`
	FinalEnergy   float64       `json:"final_energy,omitempty"`
	FinalEnergySP float64       `json:"final_energy_sp,omitempty"`
	Enthalpy      float64       `json:"enthalpy,omitempty"`
	Entropy       float64       `json:"entropy,omitempty"`
	Input         TaskCalcInput `json:"input"`
}

// TaskDocument is a stored per-molecule workflow task.  TaskLabel carries the
// molecule filename the task ran on; DirName is the reaction directory the
// task was launched from.
type TaskDocument struct {
	ID            string     `json:"id"`
	TaskLabel     string     `json:"task_label"`
	DirName       string     `json:"dir_name"`
	CalcsReversed []TaskCalc `json:"calcs_reversed"`
}

// isOptCalc accepts both spellings found in task documents.
func isOptCalc(typ string) bool { return typ == "opt" || typ == "optimization" }

func isFreqCalc(typ string) bool { return typ == "freq" || typ == "frequency" }

// TaskSource retrieves stored task documents for aggregation.  The store
// implementation returns tasks matching either the reaction directory or one
// of the molecule ids found in it.
type TaskSource interface {
	TasksFor(ctx context.Context, dirName string, moleculeIDs []string) ([]TaskDocument, error)
}

// ThermoSink persists aggregated reaction records.  Records are append-only.
type ThermoSink interface {
	SaveRecord(ctx context.Context, rec *ReactionRecord) error
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregator
// ─────────────────────────────────────────────────────────────────────────────

// Aggregator folds per-molecule quantities into reaction-level thermo data,
// either from calculation output files on disk or from stored task documents.
type Aggregator struct {
	assoc *Associator
	log   logging.Logger
}

// NewAggregator constructs an Aggregator over the given associator.
func NewAggregator(assoc *Associator, log logging.Logger) *Aggregator {
	if log == nil {
		log = logging.Default()
	}
	return &Aggregator{assoc: assoc, log: log.Named("aggregator")}
}

// roleSums accumulates one side of a reaction.
type roleSums struct {
	enthalpy float64 // kcal/mol
	entropy  float64 // cal/mol·K
	energy   float64 // Hartree
}

// AggregateFromFiles derives a reaction record by scraping the calculation
// outputs of one reaction directory.  Per molecule, the electronic energy is
// the single-point energy when one exists and the optimization energy
// otherwise; HasSinglePoint records which fallback was taken.  The enthalpy
// correction is summed as-is even when a single-point energy replaces the
// optimization energy, so mixed directories mix reference energies; the
// HasSinglePoint flags exist so downstream consumers can tell.  The supplied
// inputs pass through to the record unchanged.
func (g *Aggregator) AggregateFromFiles(dir string, inputs CalcInputs) (*ReactionRecord, error) {
	assoc, err := g.assoc.Associate(dir)
	if err != nil {
		return nil, err
	}
	if len(assoc.Reactants) == 0 && len(assoc.Products) == 0 {
		return nil, errors.New(errors.ErrCodeNothingToAggregate, "reaction directory holds no molecule files").
			WithDetail(assoc.Directory)
	}

	rec := &ReactionRecord{
		Directory: assoc.Directory,
		Inputs:    inputs,
		Thermo:    ThermoResult{HasSinglePoint: make(map[string]bool)},
	}

	var sums [2]roleSums
	for _, mf := range assoc.Molecules() {
		results, err := ParseMoleculeOutputs(mf)
		if err != nil {
			return nil, err
		}
		mol := MoleculeRecord{ID: mf.ID, Role: mf.Role, Results: results}

		s := &sums[mf.Role]
		freq := results[CalcFrequency]
		s.enthalpy += freq.Enthalpy
		s.entropy += freq.Entropy

		key := mol.Key(g.assoc.ReactantPrefix(), g.assoc.ProductPrefix())
		if sp := results[CalcSinglePoint]; sp.FinalEnergy != 0 {
			s.energy += sp.FinalEnergy
			rec.Thermo.HasSinglePoint[key] = true
		} else {
			s.energy += results[CalcOptimization].FinalEnergy
			rec.Thermo.HasSinglePoint[key] = false
		}

		if mf.Role == RoleReactant {
			rec.ReactantIDs = append(rec.ReactantIDs, mf.ID)
		} else {
			rec.ProductIDs = append(rec.ProductIDs, mf.ID)
		}
	}

	pro, rct := sums[RoleProduct], sums[RoleReactant]
	deltaE := (pro.energy - rct.energy) * HartreeToKcal
	rec.Thermo.EnthalpyJ = (deltaE + pro.enthalpy - rct.enthalpy) * KcalToJoule
	rec.Thermo.EntropyJ = (pro.entropy - rct.entropy) * CalToJoule
	rec.Thermo.CriticalTemp = criticalTemperature(rec.Thermo.EnthalpyJ, rec.Thermo.EntropyJ)

	g.log.Info("aggregated reaction from output files",
		logging.String("directory", rec.Directory),
		logging.Int("reactants", len(rec.ReactantIDs)),
		logging.Int("products", len(rec.ProductIDs)),
		logging.Float64("enthalpy_j", rec.Thermo.EnthalpyJ),
		logging.Float64("entropy_j", rec.Thermo.EntropyJ),
	)
	return rec, nil
}

// AggregateFromStore derives a reaction record from stored task documents.
// Tasks are matched to the directory by directory name or by the molecule
// ids of its .mol files; at most one task is claimed per molecule id.
// Per-task enthalpy is corrected to the single-point reference when a
// single-point step exists: (enthalpy - E_opt) + E_sp.  Nil entries of the
// supplied inputs are derived from the first task carrying the matching
// calculation step; non-nil entries pass through untouched.
func (g *Aggregator) AggregateFromStore(ctx context.Context, src TaskSource, dir string, inputs CalcInputs) (*ReactionRecord, error) {
	if src == nil {
		return nil, errors.New(errors.ErrCodeStoreNotConfigured, "no task store configured")
	}

	path := g.assoc.resolveDir(dir)
	files, err := listFiles(path)
	if err != nil {
		return nil, err
	}
	unclaimed := make(map[string]bool)
	var dirIDs []string
	for _, f := range files {
		if strings.HasSuffix(f, ".mol") {
			id := molecule.ExtractID(f)
			dirIDs = append(dirIDs, id)
			unclaimed[id] = true
		}
	}

	tasks, err := src.TasksFor(ctx, path, dirIDs)
	if err != nil {
		return nil, err
	}

	rec := &ReactionRecord{
		Directory: path,
		Inputs:    inputs,
		Thermo:    ThermoResult{HasSinglePoint: make(map[string]bool)},
	}

	var sums [2]struct{ enthalpy, entropy float64 }
	claimed := make(map[string]bool)
	for _, task := range tasks {
		id := molecule.ExtractID(task.TaskLabel)
		if claimed[id] || (!unclaimed[id] && task.DirName != path) {
			continue
		}
		delete(unclaimed, id)
		claimed[id] = true

		// Inputs are derived from every claimed task, even ones whose role
		// cannot be resolved below.
		deriveInputs(&rec.Inputs, task)

		var role Role
		filename := filepath.Base(task.TaskLabel)
		switch {
		case strings.HasPrefix(filename, g.assoc.ReactantPrefix()):
			role = RoleReactant
			rec.ReactantIDs = append(rec.ReactantIDs, task.ID)
		case strings.HasPrefix(filename, g.assoc.ProductPrefix()):
			role = RoleProduct
			rec.ProductIDs = append(rec.ProductIDs, task.ID)
		default:
			g.log.Warn("skipping task: cannot determine whether it is reactant or product",
				logging.String("task_label", task.TaskLabel))
			continue
		}

		h, s, hasSP := taskThermo(task)
		sums[role].enthalpy += h
		sums[role].entropy += s

		prefix := g.assoc.ReactantPrefix()
		if role == RoleProduct {
			prefix = g.assoc.ProductPrefix()
		}
		rec.Thermo.HasSinglePoint[prefix+id] = hasSP
	}

	if len(claimed) == 0 {
		return nil, errors.New(errors.ErrCodeNothingToAggregate, "no stored tasks match the reaction directory").
			WithDetail(path)
	}

	rec.Thermo.EnthalpyJ = (sums[RoleProduct].enthalpy - sums[RoleReactant].enthalpy) * KcalToJoule
	rec.Thermo.EntropyJ = (sums[RoleProduct].entropy - sums[RoleReactant].entropy) * CalToJoule
	rec.Thermo.CriticalTemp = criticalTemperature(rec.Thermo.EnthalpyJ, rec.Thermo.EntropyJ)

	g.log.Info("aggregated reaction from task store",
		logging.String("directory", rec.Directory),
		logging.Int("reactants", len(rec.ReactantIDs)),
		logging.Int("products", len(rec.ProductIDs)),
	)
	return rec, nil
}

// taskThermo folds one task's calculation steps into its enthalpy (kcal/mol)
// and entropy (cal/mol·K) contributions.  When a single-point step exists the
// enthalpy is re-referenced onto the single-point energy.
func taskThermo(task TaskDocument) (enthalpy, entropy float64, hasSP bool) {
	var energyOpt, energySP float64
	for _, calc := range task.CalcsReversed {
		switch {
		case isOptCalc(calc.Type):
			energyOpt = calc.FinalEnergy
		case isFreqCalc(calc.Type):
			enthalpy = calc.Enthalpy
			entropy = calc.Entropy
		case calc.Type == "sp":
			energySP = calc.FinalEnergySP
		}
	}
	if energySP == 0 {
		return enthalpy, entropy, false
	}
	return (enthalpy - energyOpt) + energySP, entropy, true
}

// deriveInputs fills the nil entries of inputs from the task's calculation
// steps.  The first task supplying a step wins; later tasks never overwrite.
func deriveInputs(inputs *CalcInputs, task TaskDocument) {
	for _, calc := range task.CalcsReversed {
		switch {
		case isOptCalc(calc.Type) && inputs.Opt == nil:
			inputs.Opt = calcInputFrom(calc)
		case isFreqCalc(calc.Type) && inputs.Freq == nil:
			inputs.Freq = calcInputFrom(calc)
		case calc.Type == "sp" && inputs.SP == nil:
			inputs.SP = calcInputFrom(calc)
		}
	}
}

// calcInputFrom extracts the method, basis, and solvent settings of one
// calculation step.  smd and sm12 jobs carry their solvent in the smx
// sub-document; pcm jobs carry it in the solvent field.
func calcInputFrom(calc TaskCalc) *CalcInput {
	ci := &CalcInput{
		Method: calc.Input.Rem["method"],
		Basis:  calc.Input.Rem["basis"],
	}
	model := SolventModelFromString(calc.Input.Rem["solvent_method"])
	switch model {
	case SolventSMD:
		ci.Solvent = Solvent{Model: model, Name: calc.Input.SMX["solvent"]}
	case SolventPCM:
		ci.Solvent = Solvent{Model: model, Name: calc.Input.Solvent}
	}
	return ci
}
