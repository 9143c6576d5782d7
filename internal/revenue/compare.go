package revenue

// Compare diffs two reports. Categories missing from previous count as 0.
func Compare(previous, current Report) Comparison {
	return CompareScores(previous.Score, current.Score)
}

// CompareScores is Compare over the score sections alone, for callers that
// only persisted scores.
func CompareScores(previous, current Score) Comparison {
	deltas := make([]CategoryDelta, 0, len(current.CategoryScores))
	for _, cur := range current.CategoryScores {
		prev := 0.0
		if c, ok := previous.Category(cur.Category); ok {
			prev = c.WeightedScore
		}
		deltas = append(deltas, CategoryDelta{
			Category: cur.Category,
			Previous: prev,
			Current:  cur.WeightedScore,
			Delta:    cur.WeightedScore - prev,
		})
	}
	return Comparison{
		PreviousScore:  previous.TotalScore,
		CurrentScore:   current.TotalScore,
		Delta:          current.TotalScore - previous.TotalScore,
		CategoryDeltas: deltas,
	}
}
