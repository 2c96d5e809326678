package sentiment_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/brewrank/internal/domain/model"
	"github.com/okian/brewrank/internal/domain/sentiment"
)

// failingScorer fails on texts containing "bad-input".
type failingScorer struct{}

func (failingScorer) Score(ctx context.Context, text string) (sentiment.Polarity, error) {
	if text == "bad-input" {
		return sentiment.Polarity{}, errors.New("scorer exploded")
	}
	return sentiment.Neutral(), nil
}

func TestLexiconScorer(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default lexicon scorer", t, func() {
		scorer := sentiment.NewLexiconScorer()
		So(scorer.EnsureLoaded(ctx), ShouldBeNil)

		Convey("When scoring clearly positive text", func() {
			p, err := scorer.Score(ctx, "The coffee was great and the staff were amazing")

			Convey("Then the compound is positive", func() {
				So(err, ShouldBeNil)
				So(p.Compound, ShouldBeGreaterThan, 0)
				So(p.Pos, ShouldBeGreaterThan, p.Neg)
			})
		})

		Convey("When scoring clearly negative text", func() {
			p, err := scorer.Score(ctx, "Terrible service and the worst coffee I have ever had")

			Convey("Then the compound is negative", func() {
				So(err, ShouldBeNil)
				So(p.Compound, ShouldBeLessThan, 0)
				So(p.Neg, ShouldBeGreaterThan, p.Pos)
			})
		})

		Convey("When scoring empty text", func() {
			p, err := scorer.Score(ctx, "")

			Convey("Then the result is the neutral polarity", func() {
				So(err, ShouldBeNil)
				So(p, ShouldResemble, sentiment.Neutral())
			})
		})

		Convey("When scoring text with no lexicon words", func() {
			p, err := scorer.Score(ctx, "the building has four walls and a roof")

			Convey("Then the result is neutral with zero compound", func() {
				So(err, ShouldBeNil)
				So(p.Compound, ShouldEqual, 0)
				So(p.Neu, ShouldEqual, 1)
			})
		})

		Convey("When scoring the same text twice", func() {
			first, err1 := scorer.Score(ctx, "lovely little shop with excellent espresso")
			second, err2 := scorer.Score(ctx, "lovely little shop with excellent espresso")

			Convey("Then scoring is pure", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When scoring any text", func() {
			texts := []string{
				"great great great great great great",
				"awful horrible terrible disgusting",
				"fine",
				"not good",
			}

			Convey("Then the partition sums to 1 and compound stays in bounds", func() {
				for _, text := range texts {
					p, err := scorer.Score(ctx, text)
					So(err, ShouldBeNil)
					So(p.Neg+p.Neu+p.Pos, ShouldAlmostEqual, 1, 1e-9)
					So(p.Compound, ShouldBeBetweenOrEqual, -1, 1)
				}
			})
		})

		Convey("When a negator precedes a positive word", func() {
			plain, _ := scorer.Score(ctx, "good coffee")
			negated, _ := scorer.Score(ctx, "not good coffee")

			Convey("Then negation flips the valence", func() {
				So(plain.Compound, ShouldBeGreaterThan, 0)
				So(negated.Compound, ShouldBeLessThan, 0)
			})
		})

		Convey("When a booster precedes a positive word", func() {
			plain, _ := scorer.Score(ctx, "good coffee")
			boosted, _ := scorer.Score(ctx, "very good coffee")

			Convey("Then the boosted compound is stronger", func() {
				So(boosted.Compound, ShouldBeGreaterThan, plain.Compound)
			})
		})
	})

	Convey("Given a custom lexicon source", t, func() {
		Convey("When the source is well-formed", func() {
			scorer := sentiment.NewLexiconScorer(sentiment.WithLexiconSource("# comment\nsplendid 3.0\ndire -3.0\n"))

			Convey("Then it loads and scores with the custom valences", func() {
				So(scorer.EnsureLoaded(ctx), ShouldBeNil)
				p, err := scorer.Score(ctx, "splendid")
				So(err, ShouldBeNil)
				So(p.Compound, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the source is malformed", func() {
			scorer := sentiment.NewLexiconScorer(sentiment.WithLexiconSource("broken line without valence"))

			Convey("Then loading fails with the lexicon error", func() {
				err := scorer.EnsureLoaded(ctx)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, sentiment.ErrBadLexicon), ShouldBeTrue)
			})
		})
	})
}

func TestScoreBundles(t *testing.T) {
	ctx := context.Background()

	Convey("Given bundles where some fail to score", t, func() {
		bundles := []model.ReviewBundle{
			{YelpID: "y-1", ReviewText: "fine"},
			{YelpID: "y-2", ReviewText: "bad-input"},
			{YelpID: "y-3", ReviewText: "fine"},
		}

		Convey("When scoring with a scorer that fails on one bundle", func() {
			scores, failed := sentiment.ScoreBundles(ctx, failingScorer{}, bundles)

			Convey("Then the failure is skipped and counted, not fatal", func() {
				So(failed, ShouldEqual, 1)
				So(scores, ShouldHaveLength, 2)
				So(scores[0].YelpID, ShouldEqual, "y-1")
				So(scores[1].YelpID, ShouldEqual, "y-3")
			})
		})
	})

	Convey("Given no bundles", t, func() {
		Convey("When scoring", func() {
			scores, failed := sentiment.ScoreBundles(ctx, failingScorer{}, nil)

			Convey("Then the result is empty", func() {
				So(scores, ShouldBeEmpty)
				So(failed, ShouldEqual, 0)
			})
		})
	})
}

func TestScoreBundlesParallel(t *testing.T) {
	ctx := context.Background()

	Convey("Given many bundles and a worker pool", t, func() {
		bundles := make([]model.ReviewBundle, 0, 20)
		for i := 0; i < 20; i++ {
			text := "fine"
			if i%5 == 0 {
				text = "bad-input"
			}
			bundles = append(bundles, model.ReviewBundle{
				YelpID:     fmt.Sprintf("y-%02d", i),
				ReviewText: text,
			})
		}

		Convey("When scoring with several workers", func() {
			scores, failed := sentiment.ScoreBundlesParallel(ctx, failingScorer{}, bundles, 4)

			Convey("Then semantics match the sequential path", func() {
				seqScores, seqFailed := sentiment.ScoreBundles(ctx, failingScorer{}, bundles)
				So(failed, ShouldEqual, seqFailed)
				So(scores, ShouldResemble, seqScores)
			})

			Convey("Then output keeps bundle order", func() {
				So(failed, ShouldEqual, 4)
				So(scores, ShouldHaveLength, 16)
				for i := 1; i < len(scores); i++ {
					So(scores[i-1].YelpID, ShouldBeLessThan, scores[i].YelpID)
				}
			})
		})

		Convey("When requesting a single worker", func() {
			scores, failed := sentiment.ScoreBundlesParallel(ctx, failingScorer{}, bundles, 1)

			Convey("Then the sequential path is used with the same result", func() {
				So(failed, ShouldEqual, 4)
				So(scores, ShouldHaveLength, 16)
			})
		})
	})
}
