package core

import (
	"math/rand"
	"time"

	"github.com/ubersicht-tools/widgetset/internal/domain"
)

// Splits holds the three disjoint partitions of a dataset.
type Splits struct {
	Train []domain.DatasetEntry
	Valid []domain.DatasetEntry
	Test  []domain.DatasetEntry
}

// Get returns the partition named s.
func (s Splits) Get(split domain.Split) []domain.DatasetEntry {
	switch split {
	case domain.SplitTrain:
		return s.Train
	case domain.SplitValid:
		return s.Valid
	default:
		return s.Test
	}
}

// Len returns the total number of entries.
func (s Splits) Len() int {
	return len(s.Train) + len(s.Valid) + len(s.Test)
}

// SplitSizes returns floor(0.8n), floor(0.1n) and the remainder.
func SplitSizes(n int) (train, valid, test int) {
	train = n * 8 / 10
	valid = n / 10
	test = n - train - valid
	return train, valid, test
}

// ResolveSeed returns seed when set. Otherwise it draws one from the clock so
// the run can still be replayed from the logged value.
func ResolveSeed(seed *int64) (int64, bool) {
	if seed != nil {
		return *seed, true
	}
	return time.Now().UnixNano(), false
}

// Shuffle returns a permutation of entries determined by seed. The input is
// left untouched.
func Shuffle(entries []domain.DatasetEntry, seed int64) []domain.DatasetEntry {
	ret := append([]domain.DatasetEntry(nil), entries...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(ret), func(i, j int) { ret[i], ret[j] = ret[j], ret[i] })
	return ret
}

// Split cuts entries into contiguous train, valid and test ranges.
func Split(entries []domain.DatasetEntry) Splits {
	train, valid, _ := SplitSizes(len(entries))
	return Splits{
		Train: entries[:train:train],
		Valid: entries[train : train+valid : train+valid],
		Test:  entries[train+valid:],
	}
}
