package merge_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/brewrank/internal/domain/merge"
	"github.com/okian/brewrank/internal/domain/model"
)

func googleListing(name string, lat, lng, rating float64, count int, placeID string) model.RawListing {
	return model.RawListing{
		Provider:    model.ProviderGoogle,
		Name:        name,
		Lat:         model.Float(lat),
		Lng:         model.Float(lng),
		Rating:      model.Float(rating),
		RatingCount: model.Int(count),
		ExternalID:  placeID,
		Address:     name + " St",
	}
}

func yelpListing(name string, lat, lng, rating float64, count int, yelpID string) model.RawListing {
	return model.RawListing{
		Provider:    model.ProviderYelp,
		Name:        name,
		Lat:         model.Float(lat),
		Lng:         model.Float(lng),
		Rating:      model.Float(rating),
		RatingCount: model.Int(count),
		ExternalID:  yelpID,
		Address:     name + " Ave",
		URL:         "https://yelp.test/" + yelpID,
	}
}

func TestMerge(t *testing.T) {
	ctx := context.Background()

	Convey("Given listings present in both sources under the same key", t, func() {
		google := []model.RawListing{googleListing("Foo Cafe", 36.154, -95.992, 4.0, 120, "g-1")}
		yelp := []model.RawListing{yelpListing("foo cafe!", 36.1541, -95.9923, 4.5, 200, "y-1")}

		Convey("When merging", func() {
			shops, report := merge.Merge(ctx, google, yelp)

			Convey("Then exactly one canonical shop comes out", func() {
				So(shops, ShouldHaveLength, 1)
				So(report.MatchedBoth, ShouldEqual, 1)
				So(report.GoogleOnly, ShouldEqual, 0)
				So(report.YelpOnly, ShouldEqual, 0)
				So(report.YelpFallback, ShouldBeFalse)
			})

			Convey("Then canonical fields take the Google value", func() {
				So(shops[0].CanonicalName, ShouldEqual, "Foo Cafe")
				So(shops[0].Address, ShouldEqual, "Foo Cafe St")
				So(*shops[0].CanonicalLat, ShouldEqual, 36.154)
			})

			Convey("Then per-source metrics and ids are carried independently", func() {
				So(*shops[0].RatingGoogle, ShouldEqual, 4.0)
				So(*shops[0].UserRatingsTotal, ShouldEqual, 120)
				So(*shops[0].RatingYelp, ShouldEqual, 4.5)
				So(*shops[0].ReviewCount, ShouldEqual, 200)
				So(shops[0].PlaceID, ShouldEqual, "g-1")
				So(shops[0].YelpID, ShouldEqual, "y-1")
				So(shops[0].URL, ShouldEqual, "https://yelp.test/y-1")
			})
		})
	})

	Convey("Given a shop only one source knows about", t, func() {
		google := []model.RawListing{googleListing("Blue Dome Coffee", 36.154, -95.990, 4.5, 120, "g-bd")}
		yelp := []model.RawListing{yelpListing("Topeca", 36.150, -95.995, 4.0, 80, "y-tp")}

		Convey("When merging", func() {
			shops, report := merge.Merge(ctx, google, yelp)

			Convey("Then both shops survive with null fields for the absent source", func() {
				So(shops, ShouldHaveLength, 2)
				So(report.GoogleOnly, ShouldEqual, 1)
				So(report.YelpOnly, ShouldEqual, 1)

				blueDome := shops[0]
				So(blueDome.CanonicalName, ShouldEqual, "Blue Dome Coffee")
				So(blueDome.RatingYelp, ShouldBeNil)
				So(blueDome.ReviewCount, ShouldBeNil)
				So(blueDome.YelpID, ShouldEqual, "")

				topeca := shops[1]
				So(topeca.CanonicalName, ShouldEqual, "Topeca")
				So(topeca.RatingGoogle, ShouldBeNil)
				So(topeca.UserRatingsTotal, ShouldBeNil)
				So(topeca.PlaceID, ShouldEqual, "")
			})
		})
	})

	Convey("Given unkeyable listings mixed into both sides", t, func() {
		google := []model.RawListing{
			googleListing("Keyed Shop", 36.1, -95.9, 4.2, 50, "g-k"),
			{Provider: model.ProviderGoogle, Name: "No Coords", ExternalID: "g-nc"},
		}
		yelp := []model.RawListing{
			yelpListing("Keyed Shop", 36.1, -95.9, 4.6, 75, "y-k"),
			{Provider: model.ProviderYelp, Lat: model.Float(36.2), Lng: model.Float(-95.8), ExternalID: "y-nn"},
		}

		Convey("When merging", func() {
			shops, report := merge.Merge(ctx, google, yelp)

			Convey("Then unkeyable rows are counted, not silently dropped", func() {
				So(report.UnkeyableGoogle, ShouldEqual, 1)
				So(report.UnkeyableYelp, ShouldEqual, 1)
				So(shops, ShouldHaveLength, 1)
				So(report.MatchedBoth, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an empty or entirely unkeyable Yelp side", t, func() {
		google := []model.RawListing{
			googleListing("Alpha", 36.1, -95.9, 4.0, 10, "g-a"),
			{Provider: model.ProviderGoogle, Name: "No Coords", ExternalID: "g-nc"},
		}

		Convey("When merging against an empty Yelp set", func() {
			shops, report := merge.Merge(ctx, google, nil)

			Convey("Then the fallback keeps every Google listing, even unkeyable ones", func() {
				So(report.YelpFallback, ShouldBeTrue)
				So(shops, ShouldHaveLength, 2)
				So(shops[0].CanonicalName, ShouldEqual, "Alpha")
				So(shops[1].CanonicalName, ShouldEqual, "No Coords")
				So(shops[1].CanonicalLat, ShouldBeNil)
			})
		})

		Convey("When merging against an all-unkeyable Yelp set", func() {
			yelp := []model.RawListing{{Provider: model.ProviderYelp, Name: "Nameless Coords Missing"}}
			shops, report := merge.Merge(ctx, google, yelp)

			Convey("Then the fallback also applies", func() {
				So(report.YelpFallback, ShouldBeTrue)
				So(report.UnkeyableYelp, ShouldEqual, 1)
				So(shops, ShouldHaveLength, 2)
			})
		})
	})

	Convey("Given duplicate keys within a single source", t, func() {
		google := []model.RawListing{
			googleListing("Dup Shop", 36.1, -95.9, 4.0, 10, "g-first"),
			googleListing("Dup Shop", 36.1, -95.9, 3.0, 99, "g-second"),
		}

		Convey("When merging", func() {
			shops, _ := merge.Merge(ctx, google, []model.RawListing{yelpListing("Other", 36.2, -95.8, 4.1, 5, "y-o")})

			Convey("Then the first occurrence wins", func() {
				So(shops, ShouldHaveLength, 2)
				So(shops[0].PlaceID, ShouldEqual, "g-first")
				So(*shops[0].RatingGoogle, ShouldEqual, 4.0)
			})
		})
	})

	Convey("Given canonical rows that collide on the (name, lat, lng) triple", t, func() {
		// Same raw name and coordinates from Google twice under different keys
		// is impossible, so collide via a Yelp-only row mirroring a Google row
		// after resolution.
		google := []model.RawListing{googleListing("Twin", 36.1, -95.9, 4.0, 10, "g-t")}
		yelp := []model.RawListing{yelpListing("Twin", 36.1006, -95.9, 4.5, 20, "y-t")}

		Convey("When the rounded keys differ but the canonical triple matches", func() {
			shops, report := merge.Merge(ctx, google, yelp)

			Convey("Then both rows survive because their triples differ", func() {
				So(shops, ShouldHaveLength, 2)
				So(report.CollisionsDropped, ShouldEqual, 0)
			})
		})
	})

	Convey("Given the same inputs merged twice", t, func() {
		google := []model.RawListing{
			googleListing("A", 36.1, -95.9, 4.0, 10, "g-a"),
			googleListing("B", 36.2, -95.8, 4.5, 20, "g-b"),
		}
		yelp := []model.RawListing{
			yelpListing("B", 36.2, -95.8, 4.2, 30, "y-b"),
			yelpListing("C", 36.3, -95.7, 3.9, 40, "y-c"),
		}

		Convey("When merging both times", func() {
			first, firstReport := merge.Merge(ctx, google, yelp)
			second, secondReport := merge.Merge(ctx, google, yelp)

			Convey("Then the result is identical", func() {
				So(second, ShouldResemble, first)
				So(secondReport, ShouldResemble, firstReport)
			})

			Convey("Then the output order is Google order, then Yelp-only order", func() {
				So(first, ShouldHaveLength, 3)
				So(first[0].CanonicalName, ShouldEqual, "A")
				So(first[1].CanonicalName, ShouldEqual, "B")
				So(first[2].CanonicalName, ShouldEqual, "C")
			})
		})
	})

	Convey("Given both sides empty", t, func() {
		Convey("When merging", func() {
			shops, report := merge.Merge(ctx, nil, nil)

			Convey("Then the output is empty without error", func() {
				So(shops, ShouldBeEmpty)
				So(report.YelpFallback, ShouldBeTrue)
			})
		})
	})
}
