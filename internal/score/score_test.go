package score

import "testing"

func TestScale_Empty(t *testing.T) {
	if got := Scale(nil); got != Floor {
		t.Errorf("Scale(nil) = %d, want %d", got, Floor)
	}
}

func TestScale_AllCorrectFullCoverage(t *testing.T) {
	outcomes := []Outcome{
		{Domain: 1, Correct: true},
		{Domain: 2, Correct: true},
		{Domain: 3, Correct: true},
		{Domain: 4, Correct: true},
	}
	if got := Scale(outcomes); got != Ceiling {
		t.Errorf("Scale(all correct) = %d, want %d", got, Ceiling)
	}
}

func TestScale_AllIncorrect(t *testing.T) {
	outcomes := []Outcome{
		{Domain: 1},
		{Domain: 2},
		{Domain: 3},
		{Domain: 4},
	}
	if got := Scale(outcomes); got != Floor {
		t.Errorf("Scale(all incorrect) = %d, want %d", got, Floor)
	}
}

func TestScale_PartialDomainNotPenalized(t *testing.T) {
	// Only domain 3 represented, all correct: normalization over
	// represented domains must yield the ceiling, not 0.33*600+200.
	outcomes := []Outcome{
		{Domain: 3, Correct: true},
		{Domain: 3, Correct: true},
	}
	if got := Scale(outcomes); got != Ceiling {
		t.Errorf("Scale(single domain, all correct) = %d, want %d", got, Ceiling)
	}
}

func TestScale_WeightedMean(t *testing.T) {
	// Domain 1 at 100%, domain 4 at 0%. Weighted accuracy:
	// (0.17*1 + 0.30*0) / 0.47 = 0.36170..., scaled 200 + 0.36170*600 = 417.02 → 417.
	outcomes := []Outcome{
		{Domain: 1, Correct: true},
		{Domain: 4, Correct: false},
	}
	if got := Scale(outcomes); got != 417 {
		t.Errorf("Scale = %d, want 417", got)
	}
}

func TestScale_UndomainedCountsAsDomainOne(t *testing.T) {
	outcomes := []Outcome{
		{Domain: 0, Correct: true},
		{Domain: 1, Correct: false},
	}
	// Both fold into domain 1: accuracy 0.5, one represented domain,
	// scaled 200 + 0.5*600 = 500.
	if got := Scale(outcomes); got != 500 {
		t.Errorf("Scale = %d, want 500", got)
	}
}

func TestBreakdown(t *testing.T) {
	outcomes := []Outcome{
		{Domain: 0, Correct: true},
		{Domain: 1, Correct: false},
		{Domain: 3, Correct: true},
	}
	bd := Breakdown(outcomes)
	if len(bd) != 2 {
		t.Fatalf("breakdown domains = %d, want 2", len(bd))
	}
	if bd[0].Domain != 1 || bd[0].Total != 2 || bd[0].Correct != 1 {
		t.Errorf("domain 1 = %+v, want {1 2 1}", bd[0])
	}
	if bd[1].Domain != 3 || bd[1].Total != 1 || bd[1].Correct != 1 {
		t.Errorf("domain 3 = %+v, want {3 1 1}", bd[1])
	}
}
