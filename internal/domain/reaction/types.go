// Package reaction implements the core of the thermochemistry workflow: the
// file/record associator that binds calculation artifacts to the reactant and
// product molecules of a reaction, and the thermo aggregator that folds
// per-molecule quantities into reaction-level enthalpy, entropy, and the
// derived critical temperature.
package reaction

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Unit conversion constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// HartreeToKcal converts electronic energies (Hartree) to kcal/mol.
	HartreeToKcal = 627.509

	// CalToJoule converts cal → J (and cal/mol·K → J/mol·K).
	CalToJoule = 4.184

	// KcalToJoule converts kcal/mol → J/mol.
	KcalToJoule = 1000 * CalToJoule
)

// ─────────────────────────────────────────────────────────────────────────────
// Role
// ─────────────────────────────────────────────────────────────────────────────

// Role marks which side of a reaction a molecule belongs to.
type Role int

const (
	RoleReactant Role = iota
	RoleProduct
)

func (r Role) String() string {
	switch r {
	case RoleReactant:
		return "reactant"
	case RoleProduct:
		return "product"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// CalcType
// ─────────────────────────────────────────────────────────────────────────────

// CalcType identifies the kind of quantum-chemistry calculation an output
// file or task sub-document came from.  Unknown is an explicit member so that
// files outside the naming convention are handled deliberately instead of
// being silently mis-bound.
type CalcType int

const (
	CalcUnknown CalcType = iota
	CalcOptimization
	CalcFrequency
	CalcSinglePoint
)

func (t CalcType) String() string {
	switch t {
	case CalcOptimization:
		return "opt"
	case CalcFrequency:
		return "freq"
	case CalcSinglePoint:
		return "sp"
	default:
		return "unknown"
	}
}

// ClassifyCalcType classifies a calculation output filename by the workflow's
// substring convention: "freq", then "opt", then "sp"; the first match wins.
// The convention guarantees the three markers are mutually exclusive in real
// job names, so first-match is a contract of the convention rather than a
// tie-break.  Names carrying none of the markers classify as CalcUnknown.
func ClassifyCalcType(filename string) CalcType {
	switch {
	case strings.Contains(filename, "freq"):
		return CalcFrequency
	case strings.Contains(filename, "opt"):
		return CalcOptimization
	case strings.Contains(filename, "sp"):
		return CalcSinglePoint
	default:
		return CalcUnknown
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Solvent model and calculation inputs
// ─────────────────────────────────────────────────────────────────────────────

// SolventModel enumerates the implicit-solvation treatments the workflow's
// QChem jobs use.
type SolventModel int

const (
	SolventNone SolventModel = iota
	SolventSMD
	SolventPCM
)

func (m SolventModel) String() string {
	switch m {
	case SolventSMD:
		return "smd"
	case SolventPCM:
		return "pcm"
	default:
		return "none"
	}
}

// SolventModelFromString maps the strings found in task documents onto the
// enumeration.  "sm12" jobs are treated as SMD: they carry their solvent in
// the same smx sub-document.
func SolventModelFromString(s string) SolventModel {
	switch strings.ToLower(s) {
	case "smd", "sm12":
		return SolventSMD
	case "pcm":
		return SolventPCM
	default:
		return SolventNone
	}
}

// Solvent is the tagged solvation variant attached to a calculation input.
// Name is required for SMD and PCM and empty for SolventNone.
type Solvent struct {
	Model SolventModel `json:"model"`
	Name  string       `json:"name,omitempty"`
}

// CalcInput records the settings a calculation was run with.  Inputs supplied
// by the caller are passed through unchanged; only absent inputs are derived
// from task documents.
type CalcInput struct {
	Method  string  `json:"method"`
	Basis   string  `json:"basis"`
	Solvent Solvent `json:"solvent"`
}

// String renders the input in the fixed dict-like form used by the flat-file
// report.
func (ci *CalcInput) String() string {
	if ci == nil {
		return "null"
	}
	if ci.Solvent.Model == SolventNone {
		return fmt.Sprintf("{method: %s, basis: %s, solvent_method: none}", ci.Method, ci.Basis)
	}
	return fmt.Sprintf("{method: %s, basis: %s, solvent_method: %s, solvent: %s}",
		ci.Method, ci.Basis, ci.Solvent.Model, ci.Solvent.Name)
}

// CalcInputs bundles the three per-reaction job settings.  A nil entry means
// the setting was neither supplied nor derivable.
type CalcInputs struct {
	Opt  *CalcInput `json:"opt"`
	Freq *CalcInput `json:"freq"`
	SP   *CalcInput `json:"sp"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Records
// ─────────────────────────────────────────────────────────────────────────────

// CalcResult holds the energetic quantities scraped from one calculation.
// Fields a calculation type does not produce stay zero; aggregation treats
// missing values as zero by contract.
type CalcResult struct {
	// FinalEnergy is the electronic energy in Hartree (opt and sp jobs).
	FinalEnergy float64 `json:"final_energy"`

	// Enthalpy is the thermal correction in kcal/mol (freq jobs).
	Enthalpy float64 `json:"enthalpy"`

	// Entropy is in cal/mol·K (freq jobs).
	Entropy float64 `json:"entropy"`
}

// MoleculeRecord is a read-only view of one molecule of a reaction, derived
// fresh from output artifacts or store documents on every aggregation run.
// The Results map holds at most one entry per calculation type.
type MoleculeRecord struct {
	ID      string                  `json:"id"`
	Role    Role                    `json:"role"`
	Results map[CalcType]CalcResult `json:"results"`
}

// Key is the molecule's identity in per-molecule maps such as
// ThermoResult.HasSinglePoint: the role prefix concatenated with the id.
func (m *MoleculeRecord) Key(reactantPre, productPre string) string {
	if m.Role == RoleProduct {
		return productPre + m.ID
	}
	return reactantPre + m.ID
}

// ThermoResult is the aggregated outcome for one reaction, in SI units.
type ThermoResult struct {
	// EnthalpyJ is the reaction enthalpy ΔH in J/mol.
	EnthalpyJ float64 `json:"enthalpy"`

	// EntropyJ is the reaction entropy ΔS in J/mol·K.
	EntropyJ float64 `json:"entropy"`

	// CriticalTemp is ΔH/ΔS in Kelvin, nil when ΔS is exactly zero.
	CriticalTemp *float64 `json:"t_critical"`

	// HasSinglePoint records, per molecule key, whether the molecule's energy
	// came from a single-point calculation (true) or fell back to the
	// optimization energy (false).
	HasSinglePoint map[string]bool `json:"has_sp"`
}

// ReactionRecord ties a reaction directory to its molecules, the calculation
// settings used, and the aggregated thermo result.  Records are appended to
// the store or serialized to a report; they are never updated in place.
type ReactionRecord struct {
	Directory   string       `json:"directory"`
	ReactantIDs []string     `json:"reactant_ids"`
	ProductIDs  []string     `json:"product_ids"`
	Inputs      CalcInputs   `json:"inputs"`
	Thermo      ThermoResult `json:"thermo"`
}

// criticalTemperature derives ΔH/ΔS, returning nil at ΔS == 0.  The zero
// case is an expected, reportable outcome, never a fault.
func criticalTemperature(enthalpyJ, entropyJ float64) *float64 {
	if entropyJ == 0 {
		return nil
	}
	t := enthalpyJ / entropyJ
	return &t
}
