package enhance

import (
	"errors"
	"math"
)

var ErrInvalidChance = errors.New("invalid chance; must be a percentage in 0..100")

// Outcome of one attempt.
type Outcome string

const (
	Success Outcome = "SUCCESS"
	Fail    Outcome = "FAIL"
)

// Roll performs one attempt at chancePct percent.
// chance <= 0 never succeeds, chance >= 100 always does.
func Roll(chancePct float64, rng RandomSource) (Outcome, error) {
	if err := validateChance(chancePct); err != nil {
		return Fail, err
	}
	if chancePct <= 0 {
		return Fail, nil
	}
	if chancePct >= 100 {
		return Success, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	if rng.Float64()*100 < chancePct {
		return Success, nil
	}
	return Fail, nil
}

func validateChance(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidChance
	}
	if p < 0 || p > 100 {
		return ErrInvalidChance
	}
	return nil
}
