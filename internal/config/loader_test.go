package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/brewrank/internal/config"
)

func TestNew(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("Then the defaults are sane", func() {
			So(cfg.Addr, ShouldEqual, ":8090")
			So(cfg.DataDir, ShouldEqual, "data")
			So(cfg.SearchLocation, ShouldEqual, "Tulsa, OK")
			So(cfg.SearchRadiusMeters, ShouldEqual, 15000)
			So(cfg.SentimentBackend, ShouldEqual, "lexicon")
			So(cfg.MaxResultsLimit, ShouldEqual, 100)
			So(cfg.IncludeYelpReviews, ShouldBeTrue)
		})

		Convey("Then the data subdirectories derive from the data dir", func() {
			So(cfg.RawDir(), ShouldEqual, filepath.Join("data", "raw"))
			So(cfg.InterimDir(), ShouldEqual, filepath.Join("data", "interim"))
		})

		Convey("Then both providers are enabled", func() {
			So(cfg.HasProvider("google"), ShouldBeTrue)
			So(cfg.HasProvider("yelp"), ShouldBeTrue)
			So(cfg.HasProvider("bing"), ShouldBeFalse)
		})
	})
}

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file and no env overrides", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then loading succeeds with default values", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8090")
				So(cfg.SentimentBackend, ShouldEqual, "lexicon")
			})
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BREWRANK_ADDR", ":9999")
	t.Setenv("BREWRANK_DATA_DIR", "/tmp/brewdata")
	t.Setenv("BREWRANK_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then env values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9999")
				So(cfg.DataDir, ShouldEqual, "/tmp/brewdata")
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "addr: \":7070\"\nsearch_radius_meters: 5000\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BREWRANK_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		Convey("When loading with no env overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then file values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.SearchRadiusMeters, ShouldEqual, 5000)
			})
		})
	})
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "addr: \":7070\"\nsearch_radius_meters: 5000\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BREWRANK_CONFIG", path)
	t.Setenv("BREWRANK_ADDR", ":6060")

	Convey("Given a YAML file and an env override for the same key", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then env wins over the file, file wins over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.SearchRadiusMeters, ShouldEqual, 5000)
			})
		})
	})
}

func TestLoadInvalidRadius(t *testing.T) {
	t.Setenv("BREWRANK_SEARCH_RADIUS_METERS", "0")

	Convey("Given a non-positive search radius", t, func() {
		Convey("When loading", func() {
			_, err := config.Load(context.Background())

			Convey("Then loading fails with the invalid-config kind", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLoadInvalidBackend(t *testing.T) {
	t.Setenv("BREWRANK_SENTIMENT_BACKEND", "astrology")

	Convey("Given an unknown sentiment backend", t, func() {
		Convey("When loading", func() {
			_, err := config.Load(context.Background())

			Convey("Then loading fails with the invalid-config kind", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("BREWRANK_CONFIG", "/does/not/exist.yaml")

	Convey("Given a config file path that does not exist", t, func() {
		Convey("When loading", func() {
			_, err := config.Load(context.Background())

			Convey("Then loading fails with the load-config kind", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})
	})
}
