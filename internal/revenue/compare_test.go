package revenue

import "testing"

func scoreWith(total int, weighted ...float64) Score {
	s := Score{TotalScore: total}
	for i, w := range weighted {
		s.CategoryScores = append(s.CategoryScores, CategoryScore{
			Category:      Categories[i].Name,
			WeightedScore: w,
			MaxPossible:   Categories[i].Weight,
		})
	}
	return s
}

func TestCompareSelfIsZero(t *testing.T) {
	r := runReport(t, sampleInput())
	cmp := Compare(r, r)
	if cmp.Delta != 0 || cmp.PreviousScore != cmp.CurrentScore {
		t.Fatalf("unexpected comparison: %+v", cmp)
	}
	for _, d := range cmp.CategoryDeltas {
		if d.Delta != 0 {
			t.Fatalf("%s delta %v", d.Category, d.Delta)
		}
	}
}

func TestCompareImprovedVersion(t *testing.T) {
	prev := scoreWith(42, 10, 8, 9, 8, 7)
	cur := scoreWith(58, 15, 12, 11, 12, 8)
	cmp := CompareScores(prev, cur)

	if cmp.PreviousScore != 42 || cmp.CurrentScore != 58 || cmp.Delta != 16 {
		t.Fatalf("unexpected totals: %+v", cmp)
	}
	want := []float64{5, 4, 2, 4, 1}
	sum := 0.0
	for i, d := range cmp.CategoryDeltas {
		if d.Category != Categories[i].Name || !approx(d.Delta, want[i]) {
			t.Fatalf("delta %d: got %s %v", i, d.Category, d.Delta)
		}
		sum += d.Delta
	}
	if !approx(sum, 16) {
		t.Fatalf("category deltas sum to %v", sum)
	}
}

func TestCompareMissingPreviousCategoryCountsAsZero(t *testing.T) {
	prev := scoreWith(20, 10, 10)
	cur := scoreWith(30, 10, 10, 10)
	cmp := CompareScores(prev, cur)
	if len(cmp.CategoryDeltas) != 3 {
		t.Fatalf("expected one delta per current category, got %d", len(cmp.CategoryDeltas))
	}
	last := cmp.CategoryDeltas[2]
	if last.Previous != 0 || last.Delta != 10 {
		t.Fatalf("unexpected delta for new category: %+v", last)
	}
}
