package reaction_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltherm/moltherm/internal/domain/reaction"
	"github.com/moltherm/moltherm/internal/infrastructure/monitoring/logging"
	"github.com/moltherm/moltherm/pkg/errors"
)

// fakeSink records saved reaction records.
type fakeSink struct {
	saved []*reaction.ReactionRecord
	err   error
}

func (f *fakeSink) SaveRecord(ctx context.Context, rec *reaction.ReactionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	return nil
}

func newAnalyzer(baseDir string, tasks reaction.TaskSource, sink reaction.ThermoSink) *reaction.Analyzer {
	return reaction.NewAnalyzer(newAssociator(baseDir), tasks, sink, logging.NewNopLogger())
}

func TestAnalyzer_ExtractFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeReaction(t, dir)

	rec, err := newAnalyzer(dir, nil, nil).Extract(context.Background(), "", reaction.SourceFiles, reaction.CalcInputs{})
	require.NoError(t, err)
	assert.Equal(t, []string{"173330"}, rec.ReactantIDs)
	assert.Equal(t, []string{"88811"}, rec.ProductIDs)
}

func TestAnalyzer_ExtractRejectsUnknownSource(t *testing.T) {
	_, err := newAnalyzer(t.TempDir(), nil, nil).Extract(context.Background(), "", "", reaction.CalcInputs{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoDataSource))
}

func TestAnalyzer_ExtractFromStoreWithoutStore(t *testing.T) {
	_, err := newAnalyzer(t.TempDir(), nil, nil).Extract(context.Background(), "", reaction.SourceStore, reaction.CalcInputs{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeStoreNotConfigured))
}

func TestAnalyzer_RecordToStore(t *testing.T) {
	dir := t.TempDir()
	writeReaction(t, dir)
	sink := &fakeSink{}

	rec, err := newAnalyzer(dir, nil, sink).RecordToStore(context.Background(), "", reaction.SourceFiles, reaction.CalcInputs{})
	require.NoError(t, err)
	require.Len(t, sink.saved, 1)
	assert.Equal(t, rec, sink.saved[0])
}

func TestAnalyzer_RecordToStoreWithoutSink(t *testing.T) {
	dir := t.TempDir()
	writeReaction(t, dir)

	_, err := newAnalyzer(dir, nil, nil).RecordToStore(context.Background(), "", reaction.SourceFiles, reaction.CalcInputs{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeStoreNotConfigured))
}

func TestAnalyzer_RecordToFile(t *testing.T) {
	dir := t.TempDir()
	writeReaction(t, dir)

	rec, err := newAnalyzer(dir, nil, nil).RecordToFile(context.Background(), "", reaction.SourceFiles, reaction.CalcInputs{}, "thermo.txt")
	require.NoError(t, err)

	sum, err := reaction.ParseReport(filepath.Join(dir, "thermo.txt"))
	require.NoError(t, err)
	assert.Equal(t, rec.Directory, sum.Directory)
	assert.Equal(t, rec.Thermo.EnthalpyJ, sum.EnthalpyJ)
}

func TestAnalyzer_StoreSourceReachesTaskSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rct_1_10.mol", molblock("C"))
	writeFile(t, dir, "pro_20.mol", molblock("C"))

	src := &fakeTaskSource{tasks: []reaction.TaskDocument{
		storeTask("t-1", "rct_1_10.mol", dir, reaction.TaskCalc{Type: "freq", Enthalpy: 1, Entropy: 2}),
		storeTask("t-2", "pro_20.mol", dir, reaction.TaskCalc{Type: "freq", Enthalpy: 3, Entropy: 4}),
	}}

	rec, err := newAnalyzer(dir, src, nil).Extract(context.Background(), "", reaction.SourceStore, reaction.CalcInputs{})
	require.NoError(t, err)
	assert.InDelta(t, (3.0-1.0)*1000*4.184, rec.Thermo.EnthalpyJ, 1e-9)
}
