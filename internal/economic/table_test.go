package economic

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/services"
)

func sampleRows() []Row {
	return []Row{
		{Seq: 0, PropNum: "P1", Qualifier: "", Keyword: KeywordStart, Expression: "01/2010"},
		{Seq: 1, PropNum: "P1", Qualifier: QualifierCashflow, Keyword: KeywordOil, Expression: "1500 X B/D 6 EXP B/1.2 65.0"},
		{Seq: 2, PropNum: "P1", Qualifier: QualifierCashflow, Keyword: KeywordGOR, Expression: "1.0 1.0 M/B 6 MO LIN TIME"},
		{Seq: 3, PropNum: "P1", Qualifier: QualifierCashflow, Keyword: KeywordContinuation, Expression: "1.0 1.5 M/B 12 MO LIN TIME"},
		{Seq: 4, PropNum: "P1", Qualifier: QualifierCashflow, Keyword: KeywordContinuation, Expression: "1.5 2.0 M/B X YRS LIN TIME"},
		{Seq: 5, PropNum: "P1", Qualifier: QualifierCashflow, Keyword: KeywordWater, Expression: "200 X B/D 1 EXP B/1.2 30.0"},
		{Seq: 6, PropNum: "P2", Qualifier: QualifierCashflow, Keyword: KeywordOil, Expression: "900 X B/D 6 EXP B/1.2 50.0"},
		{Seq: 7, PropNum: "P2", Qualifier: QualifierCashflow, Keyword: KeywordGOR, Expression: "2.0 2.0 M/B X YRS LIN TIME"},
		{Seq: 8, PropNum: "P2", Qualifier: QualifierCashflow, Keyword: KeywordWater, Expression: "60 X B/D 1 EXP B/1.2 10.0"},
	}
}

func summary(id string) services.WellSummary {
	return services.WellSummary{
		WellID:      id,
		FirstOnline: time.Date(2016, 3, 14, 0, 0, 0, 0, time.UTC),
		Oil: services.StreamFit{Result: services.FitResult{
			Status: services.FitStatusFitted, Qi: 3100, AnnualizedDecline: 0.654, B: 1.2,
		}},
		Water: services.StreamFit{Result: services.SentinelResult(services.StreamWater, 1)},
		GOR:   services.GORSummary{Average: 0.55},
	}
}

func TestApplyRewritesAllRowClasses(t *testing.T) {
	tbl := NewTable(sampleRows())
	warns := tbl.Apply(summary("P1"))
	assert.Empty(t, warns)

	assert.Equal(t, "03/2016", tbl.Rows[0].Expression)
	assert.Equal(t, "100 X B/D 6 EXP B/1.2 65.4", tbl.Rows[1].Expression)
	assert.Equal(t, "0.55 0.55 M/B 6 MO LIN TIME", tbl.Rows[2].Expression)
	assert.Equal(t, "0.55 0.55 M/B 12 MO LIN TIME", tbl.Rows[3].Expression)
	assert.Equal(t, "0.55 0.55 M/B X YRS LIN TIME", tbl.Rows[4].Expression)
	assert.Equal(t, "3 X B/D 1 EXP B/1.2 100.0", tbl.Rows[5].Expression)

	// sumur lain tidak tersentuh
	assert.Equal(t, "900 X B/D 6 EXP B/1.2 50.0", tbl.Rows[6].Expression)
	assert.Len(t, tbl.Changed(), 6)
}

func TestApplySingleGORRow(t *testing.T) {
	tbl := NewTable(sampleRows())
	require.Empty(t, tbl.Apply(summary("P2")))
	assert.Equal(t, "0.55 0.55 M/B X YRS LIN TIME", tbl.Rows[7].Expression)
	// baris WTR P2 bukan lanjutan GOR
	assert.Equal(t, "3 X B/D 1 EXP B/1.2 100.0", tbl.Rows[8].Expression)
}

func TestApplyMissingRowsWarn(t *testing.T) {
	rows := sampleRows()[6:7] // hanya OIL P2
	tbl := NewTable(rows)
	warns := tbl.Apply(summary("P2"))
	require.Len(t, warns, 2)
	for _, w := range warns {
		assert.True(t, errors.Is(w.Err, ErrMissingTemplateRow))
	}
	assert.Equal(t, KeywordGOR, warns[0].Keyword)
	assert.Equal(t, KeywordWater, warns[1].Keyword)

	unknown := tbl.Apply(summary("NOPE"))
	require.Len(t, unknown, 1)
	assert.True(t, errors.Is(unknown[0].Err, ErrMissingTemplateRow))
}

func TestApplyDivergedStreamLeftUntouched(t *testing.T) {
	tbl := NewTable(sampleRows())
	ws := summary("P1")
	ws.Oil.Result = services.FitResult{Status: services.FitStatusDiverged}
	warns := tbl.Apply(ws)
	require.Len(t, warns, 1)
	assert.True(t, errors.Is(warns[0].Err, services.ErrFitDivergence))
	assert.Equal(t, "1500 X B/D 6 EXP B/1.2 65.0", tbl.Rows[1].Expression)
}

func TestApplyConcurrentWells(t *testing.T) {
	tbl := NewTable(sampleRows())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "P1"
			if i%2 == 1 {
				id = "P2"
			}
			tbl.Apply(summary(id))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, "100 X B/D 6 EXP B/1.2 65.4", tbl.Rows[1].Expression)
	assert.Equal(t, "100 X B/D 6 EXP B/1.2 65.4", tbl.Rows[6].Expression)
}
