package config_test

import (
	"errors"
	"testing"

	"github.com/okian/cuju/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the documented defaults", func() {
			convey.So(cfg.Epsilon, convey.ShouldEqual, 0.20)
			convey.So(cfg.Alpha, convey.ShouldEqual, 2.0)
			convey.So(cfg.Rounds, convey.ShouldEqual, 10)
			convey.So(cfg.Output, convey.ShouldEqual, config.OutputTable)
			convey.So(cfg.CSVPath, convey.ShouldEqual, "Leaderboard_models - Sheet1.csv")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with out-of-range fields", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"epsilon above one", func(c *config.Config) { c.Epsilon = 1.01 }},
			{"negative epsilon", func(c *config.Config) { c.Epsilon = -0.5 }},
			{"negative alpha", func(c *config.Config) { c.Alpha = -1 }},
			{"zero rounds", func(c *config.Config) { c.Rounds = 0 }},
			{"empty csv path", func(c *config.Config) { c.CSVPath = "" }},
			{"unknown output", func(c *config.Config) { c.Output = "xml" }},
			{"unknown log level", func(c *config.Config) { c.LogLevel = "loud" }},
		}
		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})

	convey.Convey("Given boundary values", t, func() {
		cfg := config.New()
		cfg.Epsilon = 1
		cfg.Alpha = 0
		cfg.Rounds = 1
		cfg.Output = config.OutputJSON
		cfg.LogLevel = ""

		convey.Convey("Then they are valid", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
