package reaction

import (
	"context"

	"github.com/moltherm/moltherm/internal/infrastructure/monitoring/logging"
	"github.com/moltherm/moltherm/pkg/errors"
)

// DataSource selects where reaction data is gathered from.
type DataSource string

const (
	// SourceFiles scrapes calculation output files on disk.
	SourceFiles DataSource = "files"

	// SourceStore reads task documents from the database.
	SourceStore DataSource = "store"
)

// Analyzer is the workflow facade: it owns the associator and aggregator and
// routes reaction records from a data source to a sink.  The task source and
// thermo sink are nil when no store is configured; file-based operation needs
// neither.
type Analyzer struct {
	assoc *Associator
	agg   *Aggregator
	tasks TaskSource
	sink  ThermoSink
	log   logging.Logger
}

// NewAnalyzer builds an Analyzer.  tasks and sink may be nil for a
// store-less setup.
func NewAnalyzer(assoc *Associator, tasks TaskSource, sink ThermoSink, log logging.Logger) *Analyzer {
	if log == nil {
		log = logging.Default()
	}
	return &Analyzer{
		assoc: assoc,
		agg:   NewAggregator(assoc, log),
		tasks: tasks,
		sink:  sink,
		log:   log.Named("analyzer"),
	}
}

// Extract aggregates one reaction directory from the chosen source without
// persisting anything.
func (a *Analyzer) Extract(ctx context.Context, dir string, source DataSource, inputs CalcInputs) (*ReactionRecord, error) {
	switch source {
	case SourceFiles:
		return a.agg.AggregateFromFiles(dir, inputs)
	case SourceStore:
		return a.agg.AggregateFromStore(ctx, a.tasks, dir, inputs)
	default:
		return nil, errors.Newf(errors.ErrCodeNoDataSource,
			"either output files or the task store must be selected as the data source, got %q", source)
	}
}

// RecordToStore aggregates one reaction and appends the record to the thermo
// store.
func (a *Analyzer) RecordToStore(ctx context.Context, dir string, source DataSource, inputs CalcInputs) (*ReactionRecord, error) {
	if a.sink == nil {
		return nil, errors.New(errors.ErrCodeStoreNotConfigured, "no thermo store configured")
	}
	rec, err := a.Extract(ctx, dir, source, inputs)
	if err != nil {
		return nil, err
	}
	if err := a.sink.SaveRecord(ctx, rec); err != nil {
		return nil, err
	}
	a.log.Info("recorded reaction thermo to store", logging.String("directory", rec.Directory))
	return rec, nil
}

// RecordToFile aggregates one reaction and writes the flat-file report into
// the reaction directory.
func (a *Analyzer) RecordToFile(ctx context.Context, dir string, source DataSource, inputs CalcInputs, filename string) (*ReactionRecord, error) {
	rec, err := a.Extract(ctx, dir, source, inputs)
	if err != nil {
		return nil, err
	}
	if err := WriteReport(rec, filename); err != nil {
		return nil, err
	}
	a.log.Info("recorded reaction thermo to report",
		logging.String("directory", rec.Directory),
		logging.String("file", filename),
	)
	return rec, nil
}

// QuickCheck screens reaction directories for atom conservation.
func (a *Analyzer) QuickCheck(dirs []string) []string {
	return a.assoc.QuickCheck(dirs)
}

// FindCommonReactants lists the reaction directories referencing a reactant.
func (a *Analyzer) FindCommonReactants(rctID string) ([]string, error) {
	return a.assoc.FindCommonReactants(rctID)
}

// MapReactantsToReactions maps reactant ids to the directories using them.
func (a *Analyzer) MapReactantsToReactions() (map[string][]string, error) {
	return a.assoc.MapReactantsToReactions()
}

// SyncOutputs copies calculation outputs across reaction directories.
func (a *Analyzer) SyncOutputs() (int, error) {
	return a.assoc.SyncOutputs()
}
