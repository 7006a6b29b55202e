// internal/services/policy.go
// Kebijakan fitting per stream (bounds, trimming) + konstanta GOR

package services

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StreamPolicy mengatur trimming dan bounds untuk satu stream.
type StreamPolicy struct {
	TrimRatio     float64 `yaml:"trim_ratio" json:"trim_ratio" validate:"gt=0,lte=1"`
	TrimMinPoints int     `yaml:"trim_min_points" json:"trim_min_points" validate:"gte=0"`
	QiLowFactor   float64 `yaml:"qi_low_factor" json:"qi_low_factor" validate:"gt=0"`
	QiHighFactor  float64 `yaml:"qi_high_factor" json:"qi_high_factor" validate:"gtfield=QiLowFactor"`
	DiMin         float64 `yaml:"di_min" json:"di_min" validate:"gt=0"`
	DiMax         float64 `yaml:"di_max" json:"di_max" validate:"gtfield=DiMin"`
}

// Bounds menurunkan bounds fit dari estimasi qi.
func (p StreamPolicy) Bounds(qiEst float64) FitBounds {
	return FitBounds{
		QiMin: qiEst * p.QiLowFactor,
		QiMax: qiEst * p.QiHighFactor,
		DiMin: p.DiMin,
		DiMax: p.DiMax,
	}
}

type GORPolicy struct {
	Window int     `yaml:"window" json:"window" validate:"gte=1"`
	Floor  float64 `yaml:"floor" json:"floor" validate:"gte=0"`
	Offset float64 `yaml:"offset" json:"offset"`
	Scale  float64 `yaml:"scale" json:"scale" validate:"gt=0"`
}

type Policy struct {
	B              float64      `yaml:"b" json:"b" validate:"gt=0"`
	EstimateWindow int          `yaml:"estimate_window" json:"estimate_window" validate:"gte=1"`
	MinPoints      int          `yaml:"min_points" json:"min_points" validate:"gte=2"`
	Oil            StreamPolicy `yaml:"oil" json:"oil"`
	Water          StreamPolicy `yaml:"water" json:"water"`
	GOR            GORPolicy    `yaml:"gor" json:"gor"`
}

// DefaultPolicy: nilai bawaan pipeline.
func DefaultPolicy() Policy {
	return Policy{
		B:              DefaultB,
		EstimateWindow: 4,
		MinPoints:      2,
		Oil: StreamPolicy{
			TrimRatio:     0.5,
			TrimMinPoints: 12,
			QiLowFactor:   0.75,
			QiHighFactor:  1.4,
			DiMin:         0.001,
			DiMax:         97,
		},
		Water: StreamPolicy{
			TrimRatio:     0.2,
			TrimMinPoints: 12,
			QiLowFactor:   0.75,
			QiHighFactor:  1.1,
			DiMin:         0.0001,
			DiMax:         100,
		},
		GOR: GORPolicy{
			Window: 6,
			Floor:  0.01,
			Offset: 500,
			Scale:  1000,
		},
	}
}

var policyValidate = validator.New()

func (p Policy) Validate() error {
	if err := policyValidate.Struct(p); err != nil {
		return fmt.Errorf("invalid fit policy: %w", err)
	}
	return nil
}

// ForStream mengembalikan policy stream oil/water.
func (p Policy) ForStream(s Stream) StreamPolicy {
	if s == StreamWater {
		return p.Water
	}
	return p.Oil
}
