// Package learning schedules reviews with a variant of the SM-2 algorithm
// and keeps the history of finished tests.
package learning

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultEasinessFactor = 2.5
	MinEasinessFactor     = 1.3

	MaxQuality     = 5
	PassingQuality = 3
)

var ErrInvalidQuality = errors.New("quality must be between 0 and 5")

func validateQuality(quality int) error {
	if quality < 0 || quality > MaxQuality {
		return fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}
	return nil
}

// UpdateEasinessFactor applies the SM-2 adjustment for a quality grade.
// The result never drops below MinEasinessFactor.
func UpdateEasinessFactor(ef float64, quality int) float64 {
	if ef == 0 {
		ef = DefaultEasinessFactor
	}
	q := float64(MaxQuality - quality)
	return math.Max(MinEasinessFactor, ef+0.1-q*(0.08+q*0.02))
}

// CalculateNextInterval returns the interval in days after a review.
// repetitions is the count of consecutive passes including this one and
// ef is the easiness factor the item had before this review.
func CalculateNextInterval(lastInterval int, ef float64, quality int, repetitions int) int {
	if quality < PassingQuality {
		return 1
	}
	switch repetitions {
	case 1:
		return 1
	case 2:
		return 6
	default:
		if lastInterval < 1 {
			lastInterval = 1
		}
		return int(math.Round(float64(lastInterval) * ef))
	}
}

// QualityFromScore converts a diff score in [0,1] to a quality grade.
func QualityFromScore(score float64) int {
	q := int(math.Round(score * MaxQuality))
	switch {
	case q < 0:
		return 0
	case q > MaxQuality:
		return MaxQuality
	}
	return q
}
