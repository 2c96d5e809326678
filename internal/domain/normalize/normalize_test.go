package normalize_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/internal/domain/normalize"
)

func TestNormName(t *testing.T) {
	Convey("Given shop names with mixed punctuation and case", t, func() {
		Convey("When normalizing a name with punctuation", func() {
			Convey("Then punctuation collapses to single spaces", func() {
				So(normalize.NormName("Foo's Café & Bakery"), ShouldEqual, "foo s caf bakery")
				So(normalize.NormName("  Blue--Dome   Coffee!!"), ShouldEqual, "blue dome coffee")
				So(normalize.NormName("COFFEE house 918"), ShouldEqual, "coffee house 918")
			})
		})

		Convey("When the name has no alphanumeric characters", func() {
			Convey("Then the result is empty", func() {
				So(normalize.NormName("!!! --- ???"), ShouldEqual, "")
				So(normalize.NormName(""), ShouldEqual, "")
			})
		})

		Convey("When two raw names differ only in case and punctuation", func() {
			Convey("Then they normalize identically", func() {
				So(normalize.NormName("Foo Café"), ShouldEqual, normalize.NormName("foo-CAF"+"É"))
			})
		})
	})
}

func TestRoundCoord(t *testing.T) {
	Convey("Given coordinates needing 3-decimal rounding", t, func() {
		Convey("When the value is exactly halfway", func() {
			Convey("Then rounding is half-to-even", func() {
				So(normalize.RoundCoord(36.1535), ShouldEqual, 36.154)
				So(normalize.RoundCoord(36.1545), ShouldEqual, 36.154)
			})
		})

		Convey("When the value already has 3 decimals", func() {
			Convey("Then it is unchanged", func() {
				So(normalize.RoundCoord(-95.992), ShouldEqual, -95.992)
			})
		})

		Convey("When the value is negative", func() {
			Convey("Then rounding behaves symmetrically", func() {
				So(normalize.RoundCoord(-95.99277), ShouldEqual, -95.993)
			})
		})
	})
}

func TestKeyFor(t *testing.T) {
	Convey("Given raw listings of varying completeness", t, func() {
		Convey("When the listing has a name and both coordinates", func() {
			l := model.RawListing{
				Name: "Blue Dome Coffee",
				Lat:  model.Float(36.15401),
				Lng:  model.Float(-95.98997),
			}
			key, err := normalize.KeyFor(l)

			Convey("Then the key combines the normalized name and rounded coordinates", func() {
				So(err, ShouldBeNil)
				So(key.NormName, ShouldEqual, "blue dome coffee")
				So(key.LatR, ShouldEqual, 36.154)
				So(key.LngR, ShouldEqual, -95.99)
			})
		})

		Convey("When the listing is missing a coordinate", func() {
			l := model.RawListing{Name: "Foo", Lat: model.Float(36.0)}
			_, err := normalize.KeyFor(l)

			Convey("Then it is unkeyable", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, normalize.ErrUnkeyable), ShouldBeTrue)
			})
		})

		Convey("When the listing name normalizes to empty", func() {
			l := model.RawListing{
				Name: "???",
				Lat:  model.Float(36.0),
				Lng:  model.Float(-95.0),
			}
			_, err := normalize.KeyFor(l)

			Convey("Then it is unkeyable", func() {
				So(errors.Is(err, normalize.ErrUnkeyable), ShouldBeTrue)
			})
		})

		Convey("When two listings differ only in formatting", func() {
			a := model.RawListing{Name: "Foo Cafe", Lat: model.Float(36.1539), Lng: model.Float(-95.9928)}
			b := model.RawListing{Name: "foo cafe!", Lat: model.Float(36.1541), Lng: model.Float(-95.9925)}
			ka, errA := normalize.KeyFor(a)
			kb, errB := normalize.KeyFor(b)

			Convey("Then both key successfully", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
			})

			Convey("Then coordinate rounding decides whether they match", func() {
				So(ka.LatR, ShouldEqual, 36.154)
				So(kb.LatR, ShouldEqual, 36.154)
				So(ka.LngR, ShouldEqual, -95.993)
				So(kb.LngR, ShouldEqual, -95.992)
				So(ka, ShouldNotResemble, kb)
			})
		})
	})
}
