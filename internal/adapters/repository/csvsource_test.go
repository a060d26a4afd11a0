package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/cuju/internal/adapters/repository"
	"github.com/okian/cuju/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func byID(items []model.Item) map[string]model.Item {
	out := make(map[string]model.Item, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out
}

func TestParseInterval(t *testing.T) {
	Convey("Given interval descriptors", t, func() {
		Convey("When a single number is given", func() {
			high, low, err := repository.ParseInterval("47")

			Convey("Then it is symmetric", func() {
				So(err, ShouldBeNil)
				So(high, ShouldEqual, 47)
				So(low, ShouldEqual, -47)
			})
		})

		Convey("When an asymmetric pair is given", func() {
			high, low, err := repository.ParseInterval(" 12.5 / -8 ")

			Convey("Then both parts are used literally", func() {
				So(err, ShouldBeNil)
				So(high, ShouldEqual, 12.5)
				So(low, ShouldEqual, -8)
			})
		})

		Convey("When the low part is positive", func() {
			high, low, err := repository.ParseInterval("10 / 4")

			Convey("Then its sign is not corrected", func() {
				So(err, ShouldBeNil)
				So(high, ShouldEqual, 10)
				So(low, ShouldEqual, 4)
			})
		})

		Convey("When the descriptor is malformed", func() {
			for _, in := range []string{"", "abc", "1/2/3", "5 / x", "/", "NaN", "Inf / -1"} {
				_, _, err := repository.ParseInterval(in)
				So(errors.Is(err, repository.ErrInvalidInterval), ShouldBeTrue)
			}
		})
	})
}

func TestCSVSourceLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a well-formed leaderboard export", t, func() {
		path := writeCSV(t, "Model,Score,CI,votes\n"+
			"alpha,1200,15,3000\n"+
			"beta,1180,\"20 / -12\",450\n"+
			"gamma,1100,8,0\n")
		src := repository.NewCSVSource(path)

		Convey("When loading", func() {
			items, err := src.Load(ctx)

			Convey("Then every record becomes an item in file order", func() {
				So(err, ShouldBeNil)
				So(len(items), ShouldEqual, 3)
				So(items[0].ID, ShouldEqual, "alpha")
				So(items[2].ID, ShouldEqual, "gamma")
				So(src.Path(), ShouldEqual, path)
			})

			Convey("Then bounds are score plus offsets", func() {
				m := byID(items)
				So(m["alpha"].Upper, ShouldEqual, 1215)
				So(m["alpha"].Lower, ShouldEqual, 1185)
				So(m["beta"].Upper, ShouldEqual, 1200)
				So(m["beta"].Lower, ShouldEqual, 1168)
				So(m["gamma"].Votes, ShouldEqual, 0)
			})
		})
	})

	Convey("Given an export with malformed records", t, func() {
		path := writeCSV(t, "Model,Score,CI,votes\n"+
			"ok-1,100,10,5\n"+
			"bad-ci,100,wide,5\n"+
			"bad-score,n/a,10,5\n"+
			"bad-votes,100,10,many\n"+
			"neg-votes,100,10,-1\n"+
			",100,10,5\n"+
			"inverted,100,\"2 / 5\",5\n"+
			"ok-1,90,10,5\n"+
			"float-votes,100,10,12.0\n"+
			"short-row,100\n"+
			"ok-2,95,\"5 / 3\",7\n")

		Convey("When loading", func() {
			items, err := repository.NewCSVSource(path).Load(ctx)

			Convey("Then only valid, first-seen records survive", func() {
				So(err, ShouldBeNil)
				m := byID(items)
				So(len(items), ShouldEqual, 3)
				So(m["ok-1"].Score, ShouldEqual, 100)
				So(m["float-votes"].Votes, ShouldEqual, 12)
				So(m["ok-2"].Lower, ShouldEqual, 98)
				So(m["ok-2"].Upper, ShouldEqual, 100)
			})
		})
	})

	Convey("Given headers in different case with a byte order mark", t, func() {
		path := writeCSV(t, "\ufeff MODEL , score ,ci, Votes\nx,1,1,1\ny,2,1,2\n")

		Convey("Then columns are still resolved", func() {
			items, err := repository.NewCSVSource(path).Load(ctx)
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 2)
		})
	})

	Convey("Given custom column names and a semicolon delimiter", t, func() {
		path := writeCSV(t, "name;elo;interval;n\nx;1000;30;4\n")
		src := repository.NewCSVSource(path,
			repository.WithColumns(repository.Columns{ID: "name", Score: "elo", Interval: "interval", Votes: "n"}),
			repository.WithComma(';'),
		)

		Convey("Then records are read with them", func() {
			items, err := src.Load(ctx)
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 1)
			So(items[0].Upper, ShouldEqual, 1030)
		})
	})

	Convey("Given a file without a required column", t, func() {
		path := writeCSV(t, "Model,Score,votes\nx,1,1\n")

		Convey("Then loading fails with ErrMissingColumn", func() {
			_, err := repository.NewCSVSource(path).Load(ctx)
			So(errors.Is(err, repository.ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "CI")
		})
	})

	Convey("Given an empty file", t, func() {
		path := writeCSV(t, "")

		Convey("Then loading fails with ErrMissingColumn", func() {
			_, err := repository.NewCSVSource(path).Load(ctx)
			So(errors.Is(err, repository.ErrMissingColumn), ShouldBeTrue)
		})
	})

	Convey("Given a path that does not exist", t, func() {
		Convey("Then loading fails with ErrOpenSource", func() {
			_, err := repository.NewCSVSource(filepath.Join(t.TempDir(), "missing.csv")).Load(ctx)
			So(errors.Is(err, repository.ErrOpenSource), ShouldBeTrue)
		})
	})

	Convey("Given the stdin path", t, func() {
		src := repository.NewCSVSource(repository.StdinPath,
			repository.WithStdin(strings.NewReader("Model,Score,CI,votes\nx,1,1,1\ny,5,1,0\n")))

		Convey("Then records come from the injected reader", func() {
			items, err := src.Load(ctx)
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 2)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		Convey("Then loading stops with the context error", func() {
			_, err := repository.NewCSVSource("-",
				repository.WithStdin(strings.NewReader("Model,Score,CI,votes\nx,1,1,1\n"))).Load(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestMemorySource(t *testing.T) {
	Convey("Given a memory source with invalid and duplicate items", t, func() {
		src := repository.NewMemorySource(
			model.Item{ID: "a", Score: 1, Upper: 2, Lower: 0},
			model.Item{ID: "", Score: 1, Upper: 2, Lower: 0},
			model.Item{ID: "b", Score: 1, Upper: 0, Lower: 2},
			model.Item{ID: "a", Score: 9, Upper: 10, Lower: 8},
			model.Item{ID: "c", Score: 3, Upper: 4, Lower: 2, Votes: 1},
		)

		Convey("When loading", func() {
			items, err := src.Load(context.Background())

			Convey("Then only valid first occurrences are returned", func() {
				So(err, ShouldBeNil)
				So(len(items), ShouldEqual, 2)
				So(items[0].Score, ShouldEqual, 1)
				So(items[1].ID, ShouldEqual, "c")
			})

			Convey("Then callers get a copy", func() {
				items[0].ID = "mutated"
				again, _ := src.Load(context.Background())
				So(again[0].ID, ShouldEqual, "a")
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := src.Load(cctx)

			Convey("Then it returns the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
