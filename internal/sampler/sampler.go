// Package sampler selects the ordered question set for a session.
package sampler

import (
	"math/rand/v2"
	"sort"

	"github.com/jvance/examdeck/internal/bank"
)

// ExamAllocation is the fixed per-domain question count for a simulated
// exam, approximating the official 17/20/33/30 domain weighting over 150
// items.
var ExamAllocation = map[int]int{
	1: 26,
	2: 30,
	3: 50,
	4: 44,
}

// ExamTotal is the nominal simulated exam length.
const ExamTotal = 150

// Sampler draws questions biased toward least-seen items.
type Sampler struct {
	bank *bank.Bank
	rng  *rand.Rand
}

// New creates a Sampler over the given bank. rng may be nil, in which case
// a time-seeded source is used.
func New(b *bank.Bank, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Sampler{bank: b, rng: rng}
}

// PickLeastSeen returns up to n questions from pool, preferring lower view
// counts. Equal-count runs are uniformly shuffled so repeated sessions do
// not replay the same order within a tier. The sort itself is stable; the
// randomness comes only from the per-run shuffle, never from the
// comparator.
func (s *Sampler) PickLeastSeen(pool []bank.Question, n int, views map[string]int) []bank.Question {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}

	sorted := make([]bank.Question, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return views[sorted[i].ID] < views[sorted[j].ID]
	})

	// Shuffle each run of equal view counts in place.
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || views[sorted[i].ID] != views[sorted[start].ID] {
			s.shuffle(sorted[start:i])
			start = i
		}
	}

	return sorted[:n]
}

// Sample selects count questions for a practice or quiz session, filtered
// to the given domains (empty or nil means the whole bank).
func (s *Sampler) Sample(count int, domains map[int]bool, views map[string]int) []bank.Question {
	pool := s.bank.All()
	if len(domains) > 0 {
		filtered := make([]bank.Question, 0, len(pool))
		for _, q := range pool {
			if domains[q.Domain] {
				filtered = append(filtered, q)
			}
		}
		pool = filtered
	}
	return s.PickLeastSeen(pool, count, views)
}

// SampleExam builds a full simulated exam: the fixed allocation from each
// domain, least-seen biased, then one uniform shuffle across the combined
// set so questions are not grouped by domain. A domain pool smaller than
// its allocation simply contributes fewer items.
func (s *Sampler) SampleExam(views map[string]int) []bank.Question {
	var out []bank.Question
	for d := 1; d <= bank.NumDomains; d++ {
		picked := s.PickLeastSeen(s.bank.ByDomain(d), ExamAllocation[d], views)
		out = append(out, picked...)
	}
	s.shuffle(out)
	return out
}

func (s *Sampler) shuffle(qs []bank.Question) {
	s.rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}
