// Package crossval implements the k-fold validation harness for the energy
// prediction task: seeded fold splitting, per-fold training and scoring of a
// caller-supplied model, ensemble-averaged prediction, and the weighted
// combination of the three per-segment leaderboard scores.
package crossval

import (
	"math/rand/v2"
	"sort"

	"github.com/gridwatts/energycv/pkg/errors"
)

// Fold holds the train/test index partition for one cross-validation fold.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter produces the fold partition for a dataset of nSamples rows.
// groups carries the optional stratification labels; plain k-fold ignores it.
type Splitter interface {
	Split(nSamples int, groups []float64) ([]Fold, error)
	NSplits() int
}

// KFold is a shuffled k-fold splitter. Fold assignment is deterministic for
// a given seed: the shuffle runs on a PCG source owned by the splitter, not
// on process-global random state.
type KFold struct {
	nSplits int
	shuffle bool
	seed    int64
}

// NewKFold creates a k-fold splitter.
func NewKFold(nSplits int, shuffle bool, seed int64) *KFold {
	return &KFold{nSplits: nSplits, shuffle: shuffle, seed: seed}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.nSplits
}

// Split partitions 0..nSamples-1 into nSplits disjoint test sets, each
// fold's training set being the complement. Every row lands in exactly one
// test fold.
func (kf *KFold) Split(nSamples int, _ []float64) ([]Fold, error) {
	if kf.nSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", kf.nSplits)
	}
	if nSamples < kf.nSplits {
		return nil, errors.NewValueError("KFold.Split",
			"cannot have more folds than samples")
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.seed), uint64(kf.seed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.nSplits)
	foldSize := nSamples / kf.nSplits
	remainder := nSamples % kf.nSplits

	current := 0
	for i := 0; i < kf.nSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[current:current+testSize])

		inTest := make([]bool, nSamples)
		for _, idx := range testIndices {
			inTest[idx] = true
		}
		trainIndices := make([]int, 0, nSamples-testSize)
		for _, idx := range indices {
			if !inTest[idx] {
				trainIndices = append(trainIndices, idx)
			}
		}

		folds[i] = Fold{TrainIndices: trainIndices, TestIndices: testIndices}
		current += testSize
	}
	return folds, nil
}

// StratifiedKFold is a k-fold splitter that balances the distribution of a
// grouping label across folds. The validator passes its yDivide argument as
// the groups.
type StratifiedKFold struct {
	nSplits int
	shuffle bool
	seed    int64
}

// NewStratifiedKFold creates a stratified k-fold splitter.
func NewStratifiedKFold(nSplits int, shuffle bool, seed int64) *StratifiedKFold {
	return &StratifiedKFold{nSplits: nSplits, shuffle: shuffle, seed: seed}
}

// NSplits returns the number of folds.
func (skf *StratifiedKFold) NSplits() int {
	return skf.nSplits
}

// Split partitions 0..nSamples-1 into nSplits test sets, spreading each
// group value evenly across the folds.
func (skf *StratifiedKFold) Split(nSamples int, groups []float64) ([]Fold, error) {
	if skf.nSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", skf.nSplits)
	}
	if groups == nil {
		return nil, errors.NewValueError("StratifiedKFold.Split",
			"stratified splitting requires group labels")
	}
	if len(groups) != nSamples {
		return nil, errors.NewDimensionError("StratifiedKFold.Split", nSamples, len(groups), 0)
	}

	classIndices := make(map[float64][]int)
	for i, g := range groups {
		classIndices[g] = append(classIndices[g], i)
	}

	// Iterate classes in a stable order so fold assignment is reproducible.
	classes := make([]float64, 0, len(classIndices))
	for c := range classIndices {
		classes = append(classes, c)
	}
	sort.Float64s(classes)

	if skf.shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.seed), uint64(skf.seed)))
		for _, c := range classes {
			indices := classIndices[c]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.nSplits)
	for _, c := range classes {
		indices := classIndices[c]
		nClass := len(indices)
		foldSize := nClass / skf.nSplits
		remainder := nClass % skf.nSplits

		current := 0
		for i := 0; i < skf.nSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			for j := 0; j < testSize && current < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[current])
				current++
			}
		}
	}

	for i := range folds {
		inTest := make([]bool, nSamples)
		for _, idx := range folds[i].TestIndices {
			inTest[idx] = true
		}
		for j := 0; j < nSamples; j++ {
			if !inTest[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}
	return folds, nil
}
