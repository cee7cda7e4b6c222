package sampler

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/jvance/examdeck/internal/bank"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func makePool(n int) []bank.Question {
	pool := make([]bank.Question, n)
	for i := range pool {
		pool[i] = bank.Question{
			ID:           fmt.Sprintf("q%d", i+1),
			Options:      map[string]string{"A": "a", "B": "b"},
			CorrectLabel: "A",
		}
	}
	return pool
}

// makeBank builds a bank with perDomain questions in each of domains 1-4.
func makeBank(t *testing.T, perDomain int) *bank.Bank {
	t.Helper()
	var records []map[string]any
	for d := 1; d <= 4; d++ {
		for i := range perDomain {
			records = append(records, map[string]any{
				"number":   fmt.Sprintf("d%d-%d", d, i+1),
				"question": "Q?",
				"options":  map[string]string{"A": "a", "B": "b"},
				"answer":   "A",
				"domain":   d,
			})
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal records: %v", err)
	}
	b, err := bank.Parse("test.json", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return b
}

func TestPickLeastSeen_SizeAndDistinctness(t *testing.T) {
	s := New(nil, testRNG())
	pool := makePool(10)

	picked := s.PickLeastSeen(pool, 4, nil)
	if len(picked) != 4 {
		t.Fatalf("len = %d, want 4", len(picked))
	}
	seen := make(map[string]bool)
	for _, q := range picked {
		if seen[q.ID] {
			t.Errorf("duplicate question %s", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestPickLeastSeen_ShortPool(t *testing.T) {
	s := New(nil, testRNG())
	pool := makePool(3)

	picked := s.PickLeastSeen(pool, 10, nil)
	if len(picked) != 3 {
		t.Errorf("len = %d, want 3 (whole pool, no padding)", len(picked))
	}
	if got := s.PickLeastSeen(nil, 5, nil); got != nil {
		t.Errorf("empty pool pick = %v, want nil", got)
	}
}

func TestPickLeastSeen_PrefersLeastSeen(t *testing.T) {
	s := New(nil, testRNG())
	pool := makePool(10)
	views := make(map[string]int)
	for i, q := range pool {
		views[q.ID] = i // q1:0 ... q10:9
	}

	picked := s.PickLeastSeen(pool, 4, views)

	// Selected max view count must not exceed excluded min view count.
	selected := make(map[string]bool)
	maxSelected := 0
	for _, q := range picked {
		selected[q.ID] = true
		if views[q.ID] > maxSelected {
			maxSelected = views[q.ID]
		}
	}
	minExcluded := int(^uint(0) >> 1)
	for _, q := range pool {
		if !selected[q.ID] && views[q.ID] < minExcluded {
			minExcluded = views[q.ID]
		}
	}
	if maxSelected > minExcluded {
		t.Errorf("selected max views %d > excluded min views %d", maxSelected, minExcluded)
	}
}

func TestPickLeastSeen_ShufflesWithinTier(t *testing.T) {
	s := New(nil, testRNG())
	pool := makePool(30) // all zero views — one big tier

	first := s.PickLeastSeen(pool, 30, nil)
	second := s.PickLeastSeen(pool, 30, nil)

	same := true
	for i := range first {
		if first[i].ID != second[i].ID {
			same = false
			break
		}
	}
	if same {
		t.Error("two picks over an all-tied pool returned identical order")
	}
}

func TestPickLeastSeen_TierBoundaryRespected(t *testing.T) {
	s := New(nil, testRNG())
	pool := makePool(6)
	views := map[string]int{"q4": 1, "q5": 1, "q6": 1}

	for range 20 {
		picked := s.PickLeastSeen(pool, 3, views)
		for _, q := range picked {
			if views[q.ID] != 0 {
				t.Fatalf("picked %s with %d views while zero-view items remained", q.ID, views[q.ID])
			}
		}
	}
}

func TestSample_DomainFilter(t *testing.T) {
	b := makeBank(t, 10)
	s := New(b, testRNG())

	picked := s.Sample(5, map[int]bool{2: true}, nil)
	if len(picked) != 5 {
		t.Fatalf("len = %d, want 5", len(picked))
	}
	for _, q := range picked {
		if q.Domain != 2 {
			t.Errorf("question %s has domain %d, want 2", q.ID, q.Domain)
		}
	}
}

func TestSample_NoFilterUsesWholeBank(t *testing.T) {
	b := makeBank(t, 2)
	s := New(b, testRNG())

	picked := s.Sample(8, nil, nil)
	if len(picked) != 8 {
		t.Errorf("len = %d, want 8", len(picked))
	}
}

func TestSampleExam_FullAllocation(t *testing.T) {
	b := makeBank(t, 60)
	s := New(b, testRNG())

	picked := s.SampleExam(nil)
	if len(picked) != ExamTotal {
		t.Fatalf("len = %d, want %d", len(picked), ExamTotal)
	}

	perDomain := make(map[int]int)
	for _, q := range picked {
		perDomain[q.Domain]++
	}
	for d, want := range ExamAllocation {
		if perDomain[d] != want {
			t.Errorf("domain %d count = %d, want %d", d, perDomain[d], want)
		}
	}
}

func TestSampleExam_Interleaved(t *testing.T) {
	b := makeBank(t, 60)
	s := New(b, testRNG())

	picked := s.SampleExam(nil)

	// After the final shuffle questions must not be grouped by domain:
	// the first allocation-sized block being single-domain would mean no
	// shuffle happened.
	first := picked[:ExamAllocation[1]]
	allSame := true
	for _, q := range first {
		if q.Domain != first[0].Domain {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("first block is single-domain; exam selection was not shuffled")
	}
}

func TestSampleExam_ShortDomainPool(t *testing.T) {
	b := makeBank(t, 28) // domains 2-4 cannot fill their allocations
	s := New(b, testRNG())

	picked := s.SampleExam(nil)
	want := 26 + 28 + 28 + 28
	if len(picked) != want {
		t.Errorf("len = %d, want %d", len(picked), want)
	}
}
