package pricing

import (
	"math"
	"math/rand"
	"testing"
)

func defaultSelection() Selection {
	return Selection{
		ProjectType: "brand",
		WorkSize:    "small",
		Timeline:    "normal",
		Revisions:   "fixed",
		Experience:  "junior",
		Capacity:    "open",
	}
}

func TestCompute_BaselineSelection(t *testing.T) {
	// Every multiplier except workSize/small is 1.0 for this selection.
	got, err := Compute(defaultSelection(), DefaultTable(), DefaultBasePrice)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if got.Total != 960 { // 800 * 1.2
		t.Fatalf("expected total 960, got %d", got.Total)
	}
	if len(got.Breakdown) != len(Factors) {
		t.Fatalf("expected %d breakdown entries, got %d", len(Factors), len(got.Breakdown))
	}
	if got.Breakdown[FactorWorkSize] != 1.2 {
		t.Fatalf("expected workSize multiplier 1.2, got %v", got.Breakdown[FactorWorkSize])
	}
}

func TestCompute_MaxSelection(t *testing.T) {
	sel := Selection{
		ProjectType: "strategy",
		WorkSize:    "extra",
		Timeline:    "rush",
		Revisions:   "open",
		Experience:  "senior",
		Capacity:    "full",
	}
	got, err := Compute(sel, DefaultTable(), DefaultBasePrice)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	// 800 * 1.3 * 1.5 * 1.3 * 1.1 * 1.5 * 1.2 = 4015.44
	if got.Total != 4015 {
		t.Fatalf("expected total 4015, got %d", got.Total)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	sel := Selection{
		ProjectType: "ux-ui",
		WorkSize:    "large",
		Timeline:    "compressed",
		Revisions:   "open",
		Experience:  "intermediate",
		Capacity:    "limited",
	}
	table := DefaultTable()

	first, err := Compute(sel, table, DefaultBasePrice)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := Compute(sel, table, DefaultBasePrice)
		if err != nil {
			t.Fatalf("Compute returned error on run %d: %v", i, err)
		}
		if again.Total != first.Total {
			t.Fatalf("run %d: total %d != %d", i, again.Total, first.Total)
		}
	}
}

func TestCompute_UnknownValue(t *testing.T) {
	sel := defaultSelection()
	sel.Timeline = "yesterday"
	if _, err := Compute(sel, DefaultTable(), DefaultBasePrice); err == nil {
		t.Fatalf("expected error for unknown timeline value")
	}
}

func TestCompute_CustomTableAndBase(t *testing.T) {
	table := DefaultTable()
	table[FactorProjectType]["brand"] = 2.0

	got, err := Compute(defaultSelection(), table, 1000)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if got.Total != 2400 { // 1000 * 2.0 * 1.2
		t.Fatalf("expected total 2400, got %d", got.Total)
	}
}

func TestCompute_MatchesProductOfMultipliers(t *testing.T) {
	// Randomised multipliers in [1.0, 5.0]: the rounded product must match a
	// direct recomputation from the breakdown.
	rng := rand.New(rand.NewSource(42))
	values := map[Factor]string{
		FactorProjectType: "brand",
		FactorWorkSize:    "small",
		FactorTimeline:    "normal",
		FactorRevisions:   "fixed",
		FactorExperience:  "junior",
		FactorCapacity:    "open",
	}

	for i := 0; i < 200; i++ {
		table := make(Table, len(Factors))
		for _, f := range Factors {
			table[f] = map[string]float64{values[f]: 1.0 + rng.Float64()*4.0}
		}

		got, err := Compute(defaultSelection(), table, DefaultBasePrice)
		if err != nil {
			t.Fatalf("run %d: Compute returned error: %v", i, err)
		}

		expected := float64(DefaultBasePrice)
		for _, f := range Factors {
			expected *= got.Breakdown[f]
		}
		if got.Total != int(math.Round(expected)) {
			t.Fatalf("run %d: total %d != rounded product %v", i, got.Total, expected)
		}
	}
}
