// internal/economic/table.go
// Tabel model ekonomi: lookup baris per sumur + update terstruktur hasil DCA

package economic

import (
	"errors"
	"fmt"
	"sync"

	"dca-oilgas/internal/services"
)

var ErrMissingTemplateRow = errors.New("missing template row")

const (
	QualifierCashflow   = "CASHFLOW"
	KeywordStart        = "START"
	KeywordOil          = "OIL"
	KeywordGOR          = "GAS/OIL"
	KeywordWater        = "WTR"
	KeywordContinuation = `"`

	// maksimal baris lanjutan GOR setelah baris utama (total 3 baris)
	maxGORContinuation = 2

	startDateLayout = "01/2006"
)

// Row = satu baris tabel ekonomi. Seq = posisi asli (index sheet / kolom seq DB).
type Row struct {
	Seq        int    `json:"seq"`
	PropNum    string `json:"propnum"`
	Section    string `json:"section,omitempty"`
	Qualifier  string `json:"qualifier"`
	Keyword    string `json:"keyword"`
	Expression string `json:"expression"`
}

type Warning struct {
	WellID  string `json:"well_id"`
	Keyword string `json:"keyword"`
	Err     error  `json:"-"`
	Message string `json:"message"`
}

func newWarning(wellID, keyword string, err error) Warning {
	return Warning{WellID: wellID, Keyword: keyword, Err: err, Message: err.Error()}
}

// Table aman dipakai paralel: update untuk sumur yang sama diserialkan lewat
// mutex per sumur, sumur berbeda menyentuh index baris yang berbeda.
type Table struct {
	Rows []Row

	byWell map[string][]int
	locks  map[string]*sync.Mutex
	dirty  map[int]bool
	dmu    sync.Mutex
}

func NewTable(rows []Row) *Table {
	t := &Table{
		Rows:   rows,
		byWell: map[string][]int{},
		locks:  map[string]*sync.Mutex{},
		dirty:  map[int]bool{},
	}
	for i, r := range rows {
		t.byWell[r.PropNum] = append(t.byWell[r.PropNum], i)
		if _, ok := t.locks[r.PropNum]; !ok {
			t.locks[r.PropNum] = &sync.Mutex{}
		}
	}
	return t
}

// Find mengembalikan posisi (index pada blok sumur) baris qualifier/keyword.
func (t *Table) Find(wellID, qualifier, keyword string) (int, bool) {
	for pos, i := range t.byWell[wellID] {
		r := t.Rows[i]
		if r.Qualifier == qualifier && r.Keyword == keyword {
			return pos, true
		}
	}
	return -1, false
}

// Changed mengembalikan baris yang sudah di-rewrite (urut Seq asli).
func (t *Table) Changed() []Row {
	t.dmu.Lock()
	defer t.dmu.Unlock()
	var out []Row
	for i, r := range t.Rows {
		if t.dirty[i] {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table) set(i int, expr string) {
	if t.Rows[i].Expression == expr {
		return
	}
	t.Rows[i].Expression = expr
	t.dmu.Lock()
	t.dirty[i] = true
	t.dmu.Unlock()
}

// Apply menulis hasil satu sumur ke barisnya. Warning tidak menghentikan proses.
func (t *Table) Apply(ws services.WellSummary) []Warning {
	mu, ok := t.locks[ws.WellID]
	if !ok {
		return []Warning{newWarning(ws.WellID, "*", fmt.Errorf("well %s has no economic rows: %w", ws.WellID, ErrMissingTemplateRow))}
	}
	mu.Lock()
	defer mu.Unlock()

	var warns []Warning
	idx := t.byWell[ws.WellID]

	if pos, ok := t.Find(ws.WellID, QualifierCashflow, KeywordOil); ok {
		t.applyStartDate(idx, pos, ws)
		if w, ok := t.applyRateDecline(idx[pos], ws.WellID, KeywordOil, ws.Oil.Result); !ok {
			warns = append(warns, w)
		}
	} else {
		warns = append(warns, missing(ws.WellID, KeywordOil))
	}

	if pos, ok := t.Find(ws.WellID, QualifierCashflow, KeywordGOR); ok {
		warns = append(warns, t.applyGOR(idx, pos, ws)...)
	} else {
		warns = append(warns, missing(ws.WellID, KeywordGOR))
	}

	if pos, ok := t.Find(ws.WellID, QualifierCashflow, KeywordWater); ok {
		if w, ok := t.applyRateDecline(idx[pos], ws.WellID, KeywordWater, ws.Water.Result); !ok {
			warns = append(warns, w)
		}
	} else {
		warns = append(warns, missing(ws.WellID, KeywordWater))
	}
	return warns
}

func missing(wellID, keyword string) Warning {
	return newWarning(wellID, keyword, fmt.Errorf("%s %s/%s: %w", wellID, QualifierCashflow, keyword, ErrMissingTemplateRow))
}

// START tepat di atas baris OIL menerima tanggal first online (MM/YYYY).
func (t *Table) applyStartDate(idx []int, oilPos int, ws services.WellSummary) {
	if oilPos == 0 || ws.FirstOnline.IsZero() {
		return
	}
	i := idx[oilPos-1]
	if i != idx[oilPos]-1 || t.Rows[i].Keyword != KeywordStart {
		return
	}
	t.set(i, ws.FirstOnline.Format(startDateLayout))
}

func (t *Table) applyRateDecline(i int, wellID, keyword string, r services.FitResult) (Warning, bool) {
	if r.Status == services.FitStatusDiverged {
		return newWarning(wellID, keyword, fmt.Errorf("%s %s left untouched: %w", wellID, keyword, services.ErrFitDivergence)), false
	}
	e, err := ParseRateDecline(t.Rows[i].Expression)
	if err != nil {
		return newWarning(wellID, keyword, err), false
	}
	t.set(i, e.Apply(r).String())
	return Warning{}, true
}

func (t *Table) applyGOR(idx []int, pos int, ws services.WellSummary) []Warning {
	var warns []Warning
	rows := []int{idx[pos]}
	for k := 1; k <= maxGORContinuation && pos+k < len(idx); k++ {
		i := idx[pos+k]
		if i != idx[pos]+k || t.Rows[i].Keyword != KeywordContinuation {
			break
		}
		rows = append(rows, i)
	}
	for _, i := range rows {
		e, err := ParseGOR(t.Rows[i].Expression)
		if err != nil {
			warns = append(warns, newWarning(ws.WellID, KeywordGOR, err))
			continue
		}
		t.set(i, e.Apply(ws.GOR).String())
	}
	return warns
}
