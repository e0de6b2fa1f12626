package repository

import (
	"context"
	"math"
	"sync"

	"github.com/shiftmatch/shiftmatch/internal/domain/model"
	"github.com/shiftmatch/shiftmatch/pkg/metrics"
)

// Treap-backed, in-memory deck store.
//
// Ordering: TotalScore DESC, then CandidateID ASC. The comparator treats
// "less" as "ranks earlier", so an in-order traversal walks the deck from
// best match to worst. Scores are held as fixed-point keys so equal floats
// compare exactly and tie-breaking stays deterministic across runs.

// scoreScale gives six decimal places of score resolution; deck scores
// live in 0..100 so the fixed-point range is nowhere near overflow.
const scoreScale = 1_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	return scoreFP(math.Round(x * scoreScale))
}

// record keeps what the treap key does not: the original float score and
// the sub-score breakdown.
type record struct {
	score     scoreFP
	total     float64
	breakdown model.Breakdown
}

type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// ranksEarlier reports whether (aScore, aID) precedes (bScore, bID) in
// deck order.
func ranksEarlier(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

// priority keeps higher scores near the root so TopN touches few nodes.
func priority(score scoreFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(score) + offset
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: priority(score), size: 1}
	}
	if ranksEarlier(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, id, score)
		}
	case ranksEarlier(score, id, n.score, n.id):
		n.left = remove(n.left, id, score)
	default:
		n.right = remove(n.right, id, score)
	}
	fix(n)
	return n
}

// positionOf counts the nodes ranking strictly earlier than (score, id)
// using the size augmentation, giving O(log n) rank queries.
func positionOf(n *node, id string, score scoreFP) int {
	before := 0
	for n != nil {
		if score == n.score && id == n.id {
			return before + nsize(n.left)
		}
		if ranksEarlier(score, id, n.score, n.id) {
			n = n.left
		} else {
			before += nsize(n.left) + 1
			n = n.right
		}
	}
	return before
}

// collectTopN appends up to limit entries in deck order.
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, ok := records[n.id]; ok {
			*out = append(*out, Entry{
				Position:    len(*out) + 1,
				CandidateID: n.id,
				TotalScore:  rec.total,
				Breakdown:   rec.breakdown,
			})
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// DeckStore is the treap-backed Store implementation.
type DeckStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]record
}

// NewDeckStore constructs an empty deck store.
func NewDeckStore(_ context.Context) *DeckStore {
	return &DeckStore{byID: make(map[string]record)}
}

// Upsert implements Store.Upsert in O(log n) expected time.
func (s *DeckStore) Upsert(_ context.Context, result model.MatchResult) error {
	key := toFixedPoint(result.TotalScore)

	s.mu.Lock()
	if old, ok := s.byID[result.CandidateID]; ok {
		s.root = remove(s.root, result.CandidateID, old.score)
	}
	s.byID[result.CandidateID] = record{
		score:     key,
		total:     result.TotalScore,
		breakdown: result.Breakdown,
	}
	s.root = insert(s.root, result.CandidateID, key)
	size := len(s.byID)
	s.mu.Unlock()

	metrics.RecordDeckUpsert()
	metrics.UpdateDeckSize(size)
	return nil
}

// Rank implements Store.Rank in O(log n).
func (s *DeckStore) Rank(_ context.Context, candidateID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[candidateID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	return Entry{
		Position:    positionOf(s.root, candidateID, rec.score) + 1,
		CandidateID: candidateID,
		TotalScore:  rec.total,
		Breakdown:   rec.breakdown,
	}, nil
}

// TopN implements Store.TopN.
func (s *DeckStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byID, &out)
	return out, nil
}

// Count implements Store.Count.
func (s *DeckStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Reset implements Store.Reset.
func (s *DeckStore) Reset(_ context.Context) {
	s.mu.Lock()
	s.root = nil
	s.byID = make(map[string]record)
	s.mu.Unlock()

	metrics.RecordDeckReset()
	metrics.UpdateDeckSize(0)
}
