package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/cuju/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewItem(t *testing.T) {
	convey.Convey("Given item construction from score and offsets", t, func() {
		convey.Convey("When offsets are symmetric", func() {
			it, err := model.NewItem("gpt-x", 100, 20, -20, 12)

			convey.Convey("Then bounds are absolute", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(it.ID, convey.ShouldEqual, "gpt-x")
				convey.So(it.Upper, convey.ShouldEqual, 120)
				convey.So(it.Lower, convey.ShouldEqual, 80)
				convey.So(it.Width(), convey.ShouldEqual, 40)
				convey.So(it.Votes, convey.ShouldEqual, 12)
			})
		})

		convey.Convey("When the low offset is positive", func() {
			it, err := model.NewItem("odd", 50, 10, 4, 0)

			convey.Convey("Then it is used literally", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(it.Lower, convey.ShouldEqual, 54)
				convey.So(it.Upper, convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When the id has surrounding whitespace", func() {
			it, err := model.NewItem("  claude  ", 1, 1, -1, 0)

			convey.Convey("Then it is trimmed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(it.ID, convey.ShouldEqual, "claude")
			})
		})

		convey.Convey("When the id is blank", func() {
			_, err := model.NewItem("   ", 1, 1, -1, 0)

			convey.Convey("Then ErrEmptyID is returned", func() {
				convey.So(errors.Is(err, model.ErrEmptyID), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When votes are negative", func() {
			_, err := model.NewItem("a", 1, 1, -1, -3)

			convey.Convey("Then ErrNegativeVotes is returned", func() {
				convey.So(errors.Is(err, model.ErrNegativeVotes), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the interval is inverted", func() {
			_, err := model.NewItem("a", 10, 2, 5, 1)

			convey.Convey("Then ErrInvertedInterval is returned", func() {
				convey.So(errors.Is(err, model.ErrInvertedInterval), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the score is NaN", func() {
			_, err := model.NewItem("a", math.NaN(), 2, -2, 1)

			convey.Convey("Then ErrNonFinite is returned", func() {
				convey.So(errors.Is(err, model.ErrNonFinite), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the interval collapses to a point", func() {
			it, err := model.NewItem("flat", 10, 0, 0, 1)

			convey.Convey("Then it is accepted with zero width", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(it.Width(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestItemString(t *testing.T) {
	convey.Convey("Given an item", t, func() {
		it := model.Item{ID: "A", Score: 100, Upper: 120, Lower: 80, Votes: 3}

		convey.Convey("Then String shows votes and CI width", func() {
			convey.So(it.String(), convey.ShouldEqual, "A (Votes: 3, CI Width: 40.0)")
		})
	})
}
