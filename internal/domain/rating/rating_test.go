package rating_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/okian/senet/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given valid rating values", t, func() {
		r, err := rating.New(1500, 350, 0.06)

		Convey("Then construction succeeds", func() {
			So(err, ShouldBeNil)
			So(r.Value(), ShouldEqual, 1500)
			So(r.Deviation(), ShouldEqual, 350)
			So(r.Volatility(), ShouldEqual, 0.06)
		})
	})

	Convey("Given a non-positive deviation", t, func() {
		_, err := rating.New(1500, 0, 0.06)

		Convey("Then construction fails eagerly", func() {
			So(err, ShouldWrap, rating.ErrInvalidRating)
		})
	})

	Convey("Given a non-positive volatility", t, func() {
		_, err := rating.New(1500, 350, -0.5)

		Convey("Then construction fails eagerly", func() {
			So(err, ShouldWrap, rating.ErrInvalidRating)
		})
	})
}

func TestScaleRoundTrip(t *testing.T) {
	Convey("Given a rating and default settings", t, func() {
		settings := rating.DefaultSettings()
		r := rating.MustNew(1850.5, 123.4, 0.0512)

		Convey("When converting public -> internal -> public", func() {
			back := r.Scale(settings).Unscale(settings)

			Convey("Then the original values are reproduced", func() {
				So(back.Value(), ShouldAlmostEqual, r.Value(), 1e-9)
				So(back.Deviation(), ShouldAlmostEqual, r.Deviation(), 1e-9)
				So(back.Volatility(), ShouldEqual, r.Volatility())
			})
		})
	})

	Convey("Given settings with a non-default start rating", t, func() {
		settings := rating.DefaultSettings().
			WithStartRating(rating.MustNew(1000, 350, 0.06))
		r := rating.MustNew(1000, 350, 0.06)

		Convey("Then the start rating maps to the origin of the internal scale", func() {
			scaled := r.Scale(settings)
			So(scaled.Value(), ShouldAlmostEqual, 0, 1e-12)
			So(scaled.Deviation(), ShouldAlmostEqual, 350/rating.ScalingRatio, 1e-12)
		})
	})

	Convey("Given the paper's reference conversion", t, func() {
		settings := rating.DefaultSettings()
		r := rating.MustNew(1500, 200, 0.06)
		scaled := r.Scale(settings)

		Convey("Then the internal values match the worked example", func() {
			So(scaled.Value(), ShouldAlmostEqual, 0, 1e-12)
			So(scaled.Deviation(), ShouldAlmostEqual, 1.1513, 0.0001)
		})
	})
}

func TestSettings(t *testing.T) {
	Convey("Given default settings", t, func() {
		settings := rating.DefaultSettings()

		Convey("Then they carry the paper defaults", func() {
			So(settings.StartRating().Value(), ShouldEqual, 1500)
			So(settings.StartRating().Deviation(), ShouldEqual, 350)
			So(settings.StartRating().Volatility(), ShouldEqual, 0.06)
			So(settings.VolatilityChange(), ShouldEqual, 0.75)
			So(settings.ConvergenceTolerance(), ShouldEqual, 1e-6)
		})

		Convey("And the With* builders return modified copies", func() {
			modified := settings.
				WithVolatilityChange(0.5).
				WithPeriodDuration(time.Hour)

			So(modified.VolatilityChange(), ShouldEqual, 0.5)
			So(modified.PeriodDuration(), ShouldEqual, time.Hour)
			So(settings.VolatilityChange(), ShouldEqual, 0.75)
			So(settings.PeriodDuration(), ShouldEqual, 24*time.Hour)
		})
	})

	Convey("Given invalid settings parameters", t, func() {
		start := rating.MustNew(1500, 350, 0.06)

		Convey("Then a non-positive tolerance is rejected", func() {
			_, err := rating.NewSettings(start, 0.5, 0, time.Hour)
			So(err, ShouldWrap, rating.ErrInvalidSettings)
		})

		Convey("Then a non-positive τ is rejected", func() {
			_, err := rating.NewSettings(start, -1, 1e-6, time.Hour)
			So(err, ShouldWrap, rating.ErrInvalidSettings)
		})

		Convey("Then a zero period duration is rejected", func() {
			_, err := rating.NewSettings(start, 0.5, 1e-6, 0)
			So(err, ShouldWrap, rating.ErrInvalidSettings)
		})
	})
}

func TestMatchResult(t *testing.T) {
	Convey("Given the win/draw/loss outcomes", t, func() {
		Convey("Then scores follow the zero-sum convention", func() {
			So(rating.Win.PlayerScore(), ShouldEqual, 1.0)
			So(rating.Win.OpponentScore(), ShouldEqual, 0.0)
			So(rating.Draw.PlayerScore(), ShouldEqual, 0.5)
			So(rating.Draw.OpponentScore(), ShouldEqual, 0.5)
			So(rating.Loss.PlayerScore(), ShouldEqual, 0.0)
			So(rating.Loss.OpponentScore(), ShouldEqual, 1.0)
		})

		Convey("And Invert flips the perspective", func() {
			So(rating.Win.Invert(), ShouldEqual, rating.Loss)
			So(rating.Loss.Invert(), ShouldEqual, rating.Win)
			So(rating.Draw.Invert(), ShouldEqual, rating.Draw)
		})

		Convey("And parsing accepts the canonical names only", func() {
			parsed, err := rating.ParseMatchResult("draw")
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, rating.Draw)

			_, err = rating.ParseMatchResult("tie")
			So(err, ShouldWrap, rating.ErrInvalidScore)
		})
	})
}

type rawScore struct{ player, opponent float64 }

func (s rawScore) PlayerScore() float64   { return s.player }
func (s rawScore) OpponentScore() float64 { return s.opponent }

func TestValidateScore(t *testing.T) {
	Convey("Given scores inside and outside [0,1]", t, func() {
		So(rating.ValidateScore(rawScore{0.25, 0.75}), ShouldBeNil)
		So(rating.ValidateScore(rawScore{-0.1, 1.1}), ShouldWrap, rating.ErrInvalidScore)
		So(rating.ValidateScore(rawScore{0.5, 1.5}), ShouldWrap, rating.ErrInvalidScore)
	})
}

func TestJSON(t *testing.T) {
	Convey("Given a rating", t, func() {
		r := rating.MustNew(1725.25, 62.5, 0.0601)

		Convey("Then it survives a JSON round trip", func() {
			data, err := json.Marshal(r)
			So(err, ShouldBeNil)

			var back rating.Rating
			So(json.Unmarshal(data, &back), ShouldBeNil)
			So(back.Value(), ShouldEqual, r.Value())
			So(back.Deviation(), ShouldEqual, r.Deviation())
			So(back.Volatility(), ShouldEqual, r.Volatility())
		})

		Convey("And unmarshalling re-validates invariants", func() {
			var bad rating.Rating
			err := json.Unmarshal([]byte(`{"rating":1500,"deviation":-1,"volatility":0.06}`), &bad)
			So(err, ShouldWrap, rating.ErrInvalidRating)
		})
	})

	Convey("Given settings", t, func() {
		settings := rating.DefaultSettings().WithVolatilityChange(0.5)

		Convey("Then they survive a JSON round trip", func() {
			data, err := json.Marshal(settings)
			So(err, ShouldBeNil)

			var back rating.Settings
			So(json.Unmarshal(data, &back), ShouldBeNil)
			So(back.VolatilityChange(), ShouldEqual, 0.5)
			So(back.PeriodDuration(), ShouldEqual, settings.PeriodDuration())
			So(back.StartRating().Value(), ShouldEqual, 1500)
		})
	})
}

func TestScaledConstruction(t *testing.T) {
	Convey("Given internal-scale values", t, func() {
		Convey("Then valid values construct", func() {
			r, err := rating.NewScaled(0.5, 1.2, 0.06)
			So(err, ShouldBeNil)
			So(r.Value(), ShouldEqual, 0.5)
		})

		Convey("Then invariants hold on the internal scale too", func() {
			_, err := rating.NewScaled(0, math.Inf(-1), 0.06)
			So(err, ShouldWrap, rating.ErrInvalidRating)
		})
	})
}
