// internal/economic/expression.go
// Parser/serializer template EXPRESSION model ekonomi (rate + decline, GOR)

package economic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dca-oilgas/internal/services"
)

var ErrTemplateFormat = errors.New("unrecognized template format")

const (
	rateMarker = "X"   // "<rate> X B/D ..."
	gorUnit    = "M/B" // "<start> <end> M/B ..."
	shapePfx   = "B/"  // "B/1.2"
)

// RateDeclineExpr: "<prefix> <rate> X B/D <body...> B/<b> <decline> <suffix>"
type RateDeclineExpr struct {
	Prefix  []string
	Rate    string
	Body    []string // dimulai dengan marker "X"
	Shape   string
	Decline string
	Suffix  []string
}

func ParseRateDecline(s string) (RateDeclineExpr, error) {
	f := strings.Fields(s)
	xi := indexOf(f, 0, func(t string) bool { return t == rateMarker })
	if xi < 0 {
		return RateDeclineExpr{}, fmt.Errorf("%q: no %q rate marker: %w", s, rateMarker, ErrTemplateFormat)
	}
	si := indexOf(f, xi+1, isShapeToken)
	if si < 0 {
		return RateDeclineExpr{}, fmt.Errorf("%q: no shape token: %w", s, ErrTemplateFormat)
	}

	e := RateDeclineExpr{
		Body:  append([]string(nil), f[xi:si]...),
		Shape: f[si],
	}
	if xi >= 1 {
		e.Rate = f[xi-1]
		e.Prefix = append([]string(nil), f[:xi-1]...)
	}
	if si+1 < len(f) {
		e.Decline = f[si+1]
		e.Suffix = append([]string(nil), f[si+2:]...)
	}
	return e, nil
}

func (e RateDeclineExpr) String() string {
	parts := append([]string(nil), e.Prefix...)
	parts = appendNonEmpty(parts, e.Rate)
	parts = append(parts, e.Body...)
	parts = appendNonEmpty(parts, e.Shape, e.Decline)
	parts = append(parts, e.Suffix...)
	return strings.Join(parts, " ")
}

// Apply menulis hasil fit ke token rate/shape/decline.
func (e RateDeclineExpr) Apply(r services.FitResult) RateDeclineExpr {
	e.Rate = RateToken(r.Qi)
	e.Decline = DeclineToken(r.AnnualizedDecline)
	if r.B > 0 {
		e.Shape = ShapeToken(r.B)
	}
	return e
}

// GORExpr: "<prefix> <start> <end> M/B <rest...>"
type GORExpr struct {
	Prefix []string
	Start  string
	End    string
	Rest   []string // dimulai dengan "M/B"
}

func ParseGOR(s string) (GORExpr, error) {
	f := strings.Fields(s)
	mi := indexOf(f, 0, func(t string) bool { return t == gorUnit })
	if mi < 0 {
		return GORExpr{}, fmt.Errorf("%q: no %q unit: %w", s, gorUnit, ErrTemplateFormat)
	}
	e := GORExpr{Rest: append([]string(nil), f[mi:]...)}
	switch {
	case mi >= 2:
		e.Start, e.End = f[mi-2], f[mi-1]
		e.Prefix = append([]string(nil), f[:mi-2]...)
	case mi == 1:
		e.End = f[0]
	}
	return e, nil
}

func (e GORExpr) String() string {
	parts := append([]string(nil), e.Prefix...)
	parts = appendNonEmpty(parts, e.Start, e.End)
	parts = append(parts, e.Rest...)
	return strings.Join(parts, " ")
}

// Apply: GOR datar (start = end = rata-rata).
func (e GORExpr) Apply(g services.GORSummary) GORExpr {
	tok := GORToken(g.Average)
	e.Start, e.End = tok, tok
	return e
}

// RateToken = int(qi/31), dipotong ke arah nol.
func RateToken(qi float64) string {
	return decimal.NewFromFloat(services.MonthlyRate(qi)).Truncate(0).String()
}

// DeclineToken = decline tahunan dalam persen, 1 desimal.
func DeclineToken(annual float64) string {
	return decimal.NewFromFloat(annual * 100).StringFixed(1)
}

func GORToken(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func ShapeToken(b float64) string {
	return shapePfx + decimal.NewFromFloat(b).String()
}

func isShapeToken(t string) bool {
	if !strings.HasPrefix(t, shapePfx) {
		return false
	}
	_, err := strconv.ParseFloat(t[len(shapePfx):], 64)
	return err == nil
}

func indexOf(f []string, from int, pred func(string) bool) int {
	for i := from; i < len(f); i++ {
		if pred(f[i]) {
			return i
		}
	}
	return -1
}

func appendNonEmpty(dst []string, vals ...string) []string {
	for _, v := range vals {
		if v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
