// Package pricing implements the baseline price engine: a pure multiply-chain
// over six project and freelancer factors. It holds no state and performs no
// I/O; callers may invoke Compute any number of times.
package pricing

import (
	"fmt"
	"math"
)

// Factor identifies one of the six pricing dimensions.
type Factor string

const (
	FactorProjectType Factor = "projectType"
	FactorWorkSize    Factor = "workSize"
	FactorTimeline    Factor = "timelinePressure"
	FactorRevisions   Factor = "revisionsModel"
	FactorExperience  Factor = "experienceBand"
	FactorCapacity    Factor = "capacityPressure"
)

// Factors lists the six dimensions in their canonical order.
var Factors = []Factor{
	FactorProjectType,
	FactorWorkSize,
	FactorTimeline,
	FactorRevisions,
	FactorExperience,
	FactorCapacity,
}

// Selection is the tuple of chosen category values, one per factor.
type Selection struct {
	ProjectType string // brand, ux-ui, product, 3d-motion, illustration, strategy, web-dev
	WorkSize    string // small, medium, large, extra
	Timeline    string // normal, compressed, rush
	Revisions   string // fixed, open
	Experience  string // junior, intermediate, senior
	Capacity    string // open, limited, full
}

// Table maps, per factor, a category value to its multiplier. Fully
// user-editable; the UI suggests multiplier >= 1.0 but nothing enforces it.
type Table map[Factor]map[string]float64

// DefaultBasePrice is the starting base amount in whole currency units.
const DefaultBasePrice = 800

// DefaultTable returns the stock multiplier configuration.
func DefaultTable() Table {
	return Table{
		FactorProjectType: {
			"brand":        1.0,
			"ux-ui":        1.2,
			"product":      1.25,
			"3d-motion":    1.15,
			"illustration": 1.0,
			"strategy":     1.3,
			"web-dev":      1.3,
		},
		FactorWorkSize: {
			"small":  1.2,
			"medium": 1.3,
			"large":  1.4,
			"extra":  1.5,
		},
		FactorTimeline: {
			"normal":     1.0,
			"compressed": 1.15,
			"rush":       1.3,
		},
		FactorRevisions: {
			"fixed": 1.0,
			"open":  1.1,
		},
		FactorExperience: {
			"junior":       1.0,
			"intermediate": 1.25,
			"senior":       1.5,
		},
		FactorCapacity: {
			"open":    1.0,
			"limited": 1.1,
			"full":    1.2,
		},
	}
}

// Result carries the rounded total and the multiplier applied per factor.
type Result struct {
	Total     int                `json:"total"`
	Breakdown map[Factor]float64 `json:"breakdown"`
}

// Compute returns basePrice multiplied by the six selected multipliers,
// rounded to the nearest whole unit. A selection value absent from the table
// is a caller programming error and fails fast.
func Compute(sel Selection, table Table, basePrice float64) (Result, error) {
	values := map[Factor]string{
		FactorProjectType: sel.ProjectType,
		FactorWorkSize:    sel.WorkSize,
		FactorTimeline:    sel.Timeline,
		FactorRevisions:   sel.Revisions,
		FactorExperience:  sel.Experience,
		FactorCapacity:    sel.Capacity,
	}

	total := basePrice
	breakdown := make(map[Factor]float64, len(Factors))
	for _, f := range Factors {
		m, ok := table[f][values[f]]
		if !ok {
			return Result{}, fmt.Errorf("pricing: unknown %s value %q", f, values[f])
		}
		total *= m
		breakdown[f] = m
	}

	return Result{Total: int(math.Round(total)), Breakdown: breakdown}, nil
}
