package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/economic"
	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

func nf(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func records() []services.ProductionRecord {
	base := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	m := services.NewHyperbolic(services.DefaultB)
	var out []services.ProductionRecord
	for i := 0; i < 18; i++ {
		q := m.Rate(float64(i*30), 2000, 0.01)
		out = append(out, services.ProductionRecord{
			WellID: "A", Date: base.AddDate(0, 0, i*30),
			Oil: nf(q), Gas: nf(q * 0.6), Water: nf(q / 4),
		})
	}
	out = append(out, services.ProductionRecord{WellID: "B", Date: base, Oil: nf(10)})
	return out
}

type memEconomic struct {
	rows    []economic.Row
	updated []economic.Row
	loadErr error
}

func (m *memEconomic) Load(_ context.Context, ids ...string) ([]economic.Row, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if len(ids) == 0 {
		return append([]economic.Row(nil), m.rows...), nil
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []economic.Row
	for _, r := range m.rows {
		if want[r.PropNum] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memEconomic) UpdateExpressions(_ context.Context, rows []economic.Row) error {
	m.updated = append(m.updated, rows...)
	return nil
}

type memResults struct {
	trigger string
	saved   *services.PopulationResult
}

func (m *memResults) SaveRun(_ context.Context, trigger string, res *services.PopulationResult) error {
	m.trigger, m.saved = trigger, res
	return nil
}

func economicRows() []economic.Row {
	return []economic.Row{
		{Seq: 1, PropNum: "A", Qualifier: "CASHFLOW", Keyword: "START", Expression: "01/1990"},
		{Seq: 2, PropNum: "A", Qualifier: "CASHFLOW", Keyword: "OIL", Expression: "1 X B/D 6 EXP B/1.2 1.0"},
		{Seq: 3, PropNum: "A", Qualifier: "CASHFLOW", Keyword: "GAS/OIL", Expression: "1.00 1.00 M/B 12 MO LIN TIME"},
		{Seq: 4, PropNum: "A", Qualifier: "CASHFLOW", Keyword: "WTR", Expression: "1 X B/D 6 EXP B/1.2 1.0"},
		// B tanpa baris GAS/OIL dan WTR -> dua warning
		{Seq: 5, PropNum: "B", Qualifier: "CASHFLOW", Keyword: "OIL", Expression: "1 X B/D 6 EXP B/1.2 1.0"},
	}
}

func newRunner(eco EconomicStore, res ResultStore) *Runner {
	return &Runner{
		Processor: services.NewWellProcessor(services.DefaultPolicy(), 5000, nil),
		Source:    services.NewRecordSet(records()),
		Economic:  eco,
		Results:   res,
		Workers:   2,
	}
}

func TestRunWritesEconomicAndPersists(t *testing.T) {
	eco := &memEconomic{rows: economicRows()}
	res := &memResults{}
	r := newRunner(eco, res)

	var (
		mu   sync.Mutex
		seen []string
	)
	out, err := r.Run(context.Background(), Options{
		Trigger:       TriggerWorker,
		WriteEconomic: true,
		Persist:       true,
		OnWell: func(_ context.Context, ws services.WellSummary, _ []economic.Warning) {
			mu.Lock()
			seen = append(seen, ws.WellID)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, seen)

	assert.Equal(t, 2, out.Tally.Wells)
	assert.Equal(t, 2, out.Tally.Warnings)
	assert.Len(t, out.Warnings, 2)

	// START, OIL, GAS/OIL, WTR milik A + OIL milik B
	assert.Equal(t, 5, out.EconomicUpdated)
	require.Len(t, eco.updated, 5)
	assert.Equal(t, "01/2019", eco.updated[0].Expression)
	assert.Equal(t, "3 X B/D 6 EXP B/1.2 100.0", eco.updated[4].Expression)

	assert.Equal(t, TriggerWorker, res.trigger)
	require.NotNil(t, res.saved)
	assert.Equal(t, out.RunID, res.saved.RunID)
}

func TestRunSubsetWithoutSideEffects(t *testing.T) {
	eco := &memEconomic{rows: economicRows()}
	res := &memResults{}
	r := newRunner(eco, res)

	out, err := r.Run(context.Background(), Options{Wells: []string{"B"}})
	require.NoError(t, err)
	require.Len(t, out.Wells, 1)
	assert.Equal(t, "B", out.Wells[0].WellID)
	assert.Empty(t, eco.updated)
	assert.Nil(t, res.saved)
}

func TestRunEconomicErrors(t *testing.T) {
	r := newRunner(nil, nil)
	_, err := r.Run(context.Background(), Options{WriteEconomic: true})
	assert.ErrorIs(t, err, ErrNoEconomicStore)

	boom := errors.New("db down")
	r = newRunner(&memEconomic{loadErr: boom}, nil)
	_, err = r.Run(context.Background(), Options{WriteEconomic: true})
	assert.ErrorIs(t, err, boom)
}

func TestFitWell(t *testing.T) {
	r := newRunner(nil, nil)
	ws, err := r.FitWell(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, services.FitStatusFitted, ws.Oil.Result.Status)
	assert.InDelta(t, 2000, ws.Oil.Result.Qi, 2000*0.05)

	_, err = r.FitWell(context.Background(), "nope")
	assert.Equal(t, util.CodeNotFound, util.CodeOf(err))
}

func TestExecuteCountsMetrics(t *testing.T) {
	r := newRunner(nil, nil)
	runs := testutil.ToFloat64(metrics.Runs.WithLabelValues(TriggerCLI))
	missing := testutil.ToFloat64(metrics.TemplateWarnings.WithLabelValues("WTR"))

	table := economic.NewTable(economicRows())
	out, err := r.Execute(context.Background(), services.NewRecordSet(records()), table, Options{Trigger: TriggerCLI})
	require.NoError(t, err)
	assert.Len(t, out.Warnings, 2)

	assert.Equal(t, runs+1, testutil.ToFloat64(metrics.Runs.WithLabelValues(TriggerCLI)))
	// B tidak punya baris WTR
	assert.Equal(t, missing+1, testutil.ToFloat64(metrics.TemplateWarnings.WithLabelValues("WTR")))
}
