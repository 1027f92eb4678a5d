// Package glicko implements the Glicko-2 rating update with fractional
// rating periods.
//
// The update follows the steps from Glickman's paper exactly, with one
// extension: the deviation decay of step 6 scales with the real-valued
// number of elapsed rating periods instead of a fixed whole period. That is
// what allows a rating to be computed at any instant. All functions here are
// pure and safe to call concurrently.
package glicko

import (
	"fmt"
	"math"

	"github.com/okian/senet/internal/domain/rating"
)

// maxIterations bounds the volatility solver. Exceeding it means the
// convergence tolerance is unreasonably small relative to τ, which is a
// configuration error, not a transient condition.
const maxIterations = 10_000

// Game is one match result as it pertains to the rated player: the
// opponent's internal-scale rating at the time the result was recorded, and
// the player's score in [0,1].
type Game struct {
	opponent rating.ScaledRating
	score    float64
}

// NewGame pairs an opponent snapshot with the player's score.
func NewGame(opponent rating.ScaledRating, score float64) Game {
	return Game{opponent: opponent, score: score}
}

// Opponent returns the opponent's rating snapshot.
func (g Game) Opponent() rating.ScaledRating { return g.opponent }

// Score returns the player's score.
func (g Game) Score() float64 { return g.score }

// Rate computes a player's new rating from the games collected since the
// rating period opened.
//
// prior is the player's rating at the onset of the period, games are the
// results collected so far, and elapsedPeriods is the real-valued fraction
// of rating periods that passed while they were collected (1.0 when closing
// a full period). With no games only the deviation decays; rating and
// volatility pass through unchanged.
//
// Rate fails with ErrNoConvergence if the volatility solver exceeds its
// iteration budget.
func Rate(prior rating.ScaledRating, games []Game, elapsedPeriods float64, settings rating.Settings) (rating.ScaledRating, error) {
	if len(games) == 0 {
		// Only step 6 applies.
		return rating.NewScaled(
			prior.Value(),
			decayedDeviation(prior.Deviation(), prior.Volatility(), elapsedPeriods),
			prior.Volatility(),
		)
	}

	// Step 3.
	variance := estimatedVariance(prior, games)

	// Step 4.
	improvement := variance * improvementSum(prior, games)

	// Step 5.
	volatility, err := newVolatility(improvement, variance, prior, settings)
	if err != nil {
		return rating.ScaledRating{}, err
	}

	// Step 6. Deviation decay over the elapsed time, using the new volatility.
	preDeviation := decayedDeviation(prior.Deviation(), volatility, elapsedPeriods)

	// Step 7.
	deviation := 1.0 / math.Sqrt(1.0/(preDeviation*preDeviation)+1.0/variance)

	value := prior.Value() + deviation*deviation*improvementSum(prior, games)

	return rating.NewScaled(value, deviation, volatility)
}

// decayedDeviation is the step 6 quantity sqrt(φ² + t·σ²), generalized to a
// fractional elapsed period count t.
func decayedDeviation(deviation, volatility, elapsedPeriods float64) float64 {
	return math.Sqrt(deviation*deviation + elapsedPeriods*volatility*volatility)
}

// g is the opponent-deviation weighting factor. Well-defined for every valid
// rating because the sqrt argument is always >= 1.
func g(deviation float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*deviation*deviation/(math.Pi*math.Pi))
}

// e is the logistic estimate of the player's win probability.
func e(g, value, opponentValue float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g*(value-opponentValue)))
}

// estimatedVariance is step 3: v = 1 / Σ g²·E·(1-E).
func estimatedVariance(prior rating.ScaledRating, games []Game) float64 {
	var sum float64
	for _, game := range games {
		opponent := game.opponent
		weight := g(opponent.Deviation())
		estimate := e(weight, prior.Value(), opponent.Value())
		sum += weight * weight * estimate * (1.0 - estimate)
	}
	return 1.0 / sum
}

// improvementSum is Σ g·(score - E), shared by steps 4 and 8.
func improvementSum(prior rating.ScaledRating, games []Game) float64 {
	var sum float64
	for _, game := range games {
		opponent := game.opponent
		weight := g(opponent.Deviation())
		estimate := e(weight, prior.Value(), opponent.Value())
		sum += weight * (game.score - estimate)
	}
	return sum
}

// newVolatility is step 5: solve f(x) = 0 with the Illinois variant of the
// regula falsi method and return σ' = exp(x/2) at the lower bracket.
func newVolatility(improvement, variance float64, prior rating.ScaledRating, settings rating.Settings) (float64, error) {
	deviationSq := prior.Deviation() * prior.Deviation()
	improvementSq := improvement * improvement
	tau := settings.VolatilityChange()

	// 5.1.
	a := math.Log(prior.Volatility() * prior.Volatility())

	f := func(x float64) float64 {
		expX := math.Exp(x)
		tmp := deviationSq + variance + expX
		return expX*(improvementSq-deviationSq-variance-expX)/(2.0*tmp*tmp) - (x-a)/(tau*tau)
	}

	// 5.2. Initial bracket. The downward search shares the iteration budget
	// with the converging loop so a pathological tolerance cannot spin here.
	var b float64
	if improvementSq > deviationSq+variance {
		b = math.Log(improvementSq - deviationSq - variance)
	} else {
		k := 1.0
		for f(a-k*tau) < 0 {
			if k > maxIterations {
				return 0, fmt.Errorf("%w: bracket search exceeded %d iterations (tolerance %v, τ %v)",
					ErrNoConvergence, maxIterations, settings.ConvergenceTolerance(), tau)
			}
			k++
		}
		b = a - k*tau
	}

	// 5.3.
	fA := f(a)
	fB := f(b)

	// 5.4. Illinois: secant step, keep the bracket, halve the retained
	// ordinate when the root stays on the same side.
	iteration := 0
	for math.Abs(b-a) > settings.ConvergenceTolerance() {
		if iteration > maxIterations {
			return 0, fmt.Errorf("%w: exceeded %d iterations (tolerance %v, τ %v)",
				ErrNoConvergence, maxIterations, settings.ConvergenceTolerance(), tau)
		}

		if fA == 0 {
			// a sits on the root exactly.
			break
		}

		c := a + (a-b)*fA/(fB-fA)

		// A step that rounds onto an existing endpoint means the bracket is
		// down to adjacent floats: the requested tolerance is finer than the
		// arithmetic can resolve.
		if c == a || c == b {
			return 0, fmt.Errorf("%w: no representable progress after %d iterations (tolerance %v, τ %v)",
				ErrNoConvergence, iteration, settings.ConvergenceTolerance(), tau)
		}

		fC := f(c)

		if fC*fB <= 0 {
			a = b
			fA = fB
		} else {
			fA /= 2.0
		}

		b = c
		fB = fC

		iteration++
	}

	// 5.5.
	return math.Exp(a / 2.0), nil
}
