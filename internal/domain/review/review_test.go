package review_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/internal/domain/review"
)

func TestBundles(t *testing.T) {
	Convey("Given Yelp listings with assorted review texts", t, func() {
		Convey("When a listing has all three texts", func() {
			yelp := []model.RawListing{{
				ExternalID:  "y-1",
				ReviewTexts: []string{"Great espresso.", "Cozy spot.", "Will return!"},
			}}
			bundles := review.Bundles(yelp)

			Convey("Then they join in order with single spaces", func() {
				So(bundles, ShouldHaveLength, 1)
				So(bundles[0].YelpID, ShouldEqual, "y-1")
				So(bundles[0].ReviewText, ShouldEqual, "Great espresso. Cozy spot. Will return!")
			})
		})

		Convey("When some texts are blank or whitespace", func() {
			yelp := []model.RawListing{{
				ExternalID:  "y-2",
				ReviewTexts: []string{"  ", "Solid pour-over.", "\t\n"},
			}}
			bundles := review.Bundles(yelp)

			Convey("Then only the usable text survives, trimmed", func() {
				So(bundles, ShouldHaveLength, 1)
				So(bundles[0].ReviewText, ShouldEqual, "Solid pour-over.")
			})
		})

		Convey("When every text is blank", func() {
			yelp := []model.RawListing{{
				ExternalID:  "y-3",
				ReviewTexts: []string{"", "   ", ""},
			}}

			Convey("Then no bundle is emitted", func() {
				So(review.Bundles(yelp), ShouldBeEmpty)
			})
		})

		Convey("When the listing has no review texts at all", func() {
			yelp := []model.RawListing{{ExternalID: "y-4"}}

			Convey("Then no bundle is emitted", func() {
				So(review.Bundles(yelp), ShouldBeEmpty)
			})
		})

		Convey("When the listing has no Yelp id", func() {
			yelp := []model.RawListing{{ReviewTexts: []string{"Orphan review."}}}

			Convey("Then it is skipped; bundles must be joinable", func() {
				So(review.Bundles(yelp), ShouldBeEmpty)
			})
		})

		Convey("When multiple listings are mixed", func() {
			yelp := []model.RawListing{
				{ExternalID: "y-a", ReviewTexts: []string{"First."}},
				{ExternalID: "y-b"},
				{ExternalID: "y-c", ReviewTexts: []string{"", "Third."}},
			}
			bundles := review.Bundles(yelp)

			Convey("Then bundles keep listing order and skip empties", func() {
				So(bundles, ShouldHaveLength, 2)
				So(bundles[0].YelpID, ShouldEqual, "y-a")
				So(bundles[1].YelpID, ShouldEqual, "y-c")
			})
		})
	})
}
