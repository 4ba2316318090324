package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sciencedex/scorecard-audit/internal/adapters/dataset"
	"github.com/smartystreets/goconvey/convey"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validCorpus = `{
	"statements": [
		{"id": "s1", "quote": "sea levels are rising", "topic": "climate", "candidate": "Jordan Hayes", "party": "Democratic", "position": 82},
		{"id": "s2", "quote": "vaccines cause no autism", "topic": "health", "candidate": "Casey Brooks", "party": "Republican", "position": 91}
	],
	"candidates": [
		{"name": "Jordan Hayes", "party": "Democratic"}
	],
	"control_panel_score": 88.5
}`

func TestLoaderLoad(t *testing.T) {
	convey.Convey("Given a corpus loader", t, func() {
		ctx := context.Background()
		loader := dataset.NewLoader()

		convey.Convey("When the file is well formed", func() {
			path := writeCorpus(t, validCorpus)
			f, err := loader.Load(ctx, path)

			convey.So(err, convey.ShouldBeNil)
			convey.So(f.Statements, convey.ShouldHaveLength, 2)
			convey.So(f.Statements[0].ID, convey.ShouldEqual, "s1")
			convey.So(f.Candidates, convey.ShouldHaveLength, 1)
			convey.So(*f.ControlPanelScore, convey.ShouldEqual, 88.5)
			convey.So(f.CrossValidationBiasLikelihood, convey.ShouldBeNil)

			convey.Convey("Then a repeat load is served from cache", func() {
				convey.So(os.Remove(path), convey.ShouldBeNil)

				again, err := loader.Load(ctx, path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(again, convey.ShouldEqual, f)
			})

			convey.Convey("Then it converts into an audit request", func() {
				req := f.Request()
				convey.So(req.Statements, convey.ShouldHaveLength, 2)
				convey.So(*req.ControlPanelScore, convey.ShouldEqual, 88.5)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := loader.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, dataset.ErrMalformedCorpus), convey.ShouldBeFalse)
		})

		convey.Convey("When the JSON is invalid", func() {
			path := writeCorpus(t, `{"statements": [`)
			_, err := loader.Load(ctx, path)

			convey.So(errors.Is(err, dataset.ErrMalformedCorpus), convey.ShouldBeTrue)
		})

		convey.Convey("When the corpus is empty", func() {
			path := writeCorpus(t, `{"statements": []}`)
			_, err := loader.Load(ctx, path)

			convey.So(errors.Is(err, dataset.ErrMalformedCorpus), convey.ShouldBeTrue)
		})

		convey.Convey("When a statement has no id", func() {
			path := writeCorpus(t, `{"statements": [{"quote": "x", "position": 50}]}`)
			_, err := loader.Load(ctx, path)

			convey.So(errors.Is(err, dataset.ErrMalformedCorpus), convey.ShouldBeTrue)
		})

		convey.Convey("When two statements share an id", func() {
			path := writeCorpus(t, `{"statements": [
				{"id": "s1", "position": 50},
				{"id": "s1", "position": 60}
			]}`)
			_, err := loader.Load(ctx, path)

			convey.So(errors.Is(err, dataset.ErrMalformedCorpus), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "duplicate")
		})

		convey.Convey("When a position is out of range", func() {
			path := writeCorpus(t, `{"statements": [{"id": "s1", "position": 101}]}`)
			_, err := loader.Load(ctx, path)

			convey.So(errors.Is(err, dataset.ErrMalformedCorpus), convey.ShouldBeTrue)
		})

		convey.Convey("When an invalid file is retried after a fix", func() {
			path := writeCorpus(t, `{"statements": []}`)
			_, err := loader.Load(ctx, path)
			convey.So(err, convey.ShouldNotBeNil)

			// Invalid results are never cached.
			convey.So(os.WriteFile(path, []byte(validCorpus), 0o644), convey.ShouldBeNil)
			f, err := loader.Load(ctx, path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(f.Statements, convey.ShouldHaveLength, 2)
		})
	})
}
