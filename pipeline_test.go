package chessvision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/rdk/logging"
	"go.viam.com/test"
)

func TestRecognizeStartingBoard(t *testing.T) {
	logger := logging.NewTestLogger(t)
	r, err := NewRecognizer(DefaultConfig(), logger)
	test.That(t, err, test.ShouldBeNil)

	photo := renderBoardPhoto(1000, 1000, 800, startingPieces())
	rec, err := r.Recognize(context.Background(), photo)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, len(rec.Corners), test.ShouldEqual, 4)
	test.That(t, rec.Rectified.Bounds().Dx(), test.ShouldEqual, 800)
	test.That(t, rec.Rectified.Bounds().Dy(), test.ShouldEqual, 800)

	counts := rec.Grid.Counts()
	test.That(t, counts.White, test.ShouldEqual, 16)
	test.That(t, counts.Black, test.ShouldEqual, 16)
	test.That(t, counts.Empty, test.ShouldEqual, 32)
	test.That(t, counts.Unknown, test.ShouldEqual, 0)

	for col := 0; col < 8; col++ {
		test.That(t, rec.Grid[0][col].Color, test.ShouldEqual, ColorBlack)
		test.That(t, rec.Grid[1][col].Color, test.ShouldEqual, ColorBlack)
		test.That(t, rec.Grid[6][col].Color, test.ShouldEqual, ColorWhite)
		test.That(t, rec.Grid[7][col].Color, test.ShouldEqual, ColorWhite)
	}
}

func TestRecognizeFileMissing(t *testing.T) {
	logger := logging.NewTestLogger(t)
	r, err := NewRecognizer(DefaultConfig(), logger)
	test.That(t, err, test.ShouldBeNil)

	_, err = r.RecognizeFile(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	test.That(t, err, test.ShouldNotBeNil)

	var se *StageError
	test.That(t, errors.As(err, &se), test.ShouldBeTrue)
	test.That(t, se.Stage, test.ShouldEqual, StageLoad)
}

func TestRecognizeNoBoard(t *testing.T) {
	logger := logging.NewTestLogger(t)
	r, err := NewRecognizer(DefaultConfig(), logger)
	test.That(t, err, test.ShouldBeNil)

	_, err = r.Recognize(context.Background(), uniformImage(500, 500, 128))
	test.That(t, errors.Is(err, ErrBoardNotFound), test.ShouldBeTrue)

	var se *StageError
	test.That(t, errors.As(err, &se), test.ShouldBeTrue)
	test.That(t, se.Stage, test.ShouldEqual, StageLocate)
}

func TestRecognizeCanceled(t *testing.T) {
	logger := logging.NewTestLogger(t)
	r, err := NewRecognizer(DefaultConfig(), logger)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Recognize(ctx, renderBoardPhoto(1000, 1000, 800, nil))
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestNewRecognizerBadConfig(t *testing.T) {
	logger := logging.NewTestLogger(t)

	conf := DefaultConfig()
	conf.BoardSize = 801
	_, err := NewRecognizer(conf, logger)
	test.That(t, err, test.ShouldNotBeNil)

	conf.BoardSize = -8
	_, err = NewRecognizer(conf, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSaveDiagnostics(t *testing.T) {
	logger := logging.NewTestLogger(t)
	r, err := NewRecognizer(DefaultConfig(), logger)
	test.That(t, err, test.ShouldBeNil)

	rec, err := r.Recognize(context.Background(), renderBoardPhoto(1000, 1000, 800, startingPieces()))
	test.That(t, err, test.ShouldBeNil)

	dir := t.TempDir()
	test.That(t, rec.SaveDiagnostics(dir), test.ShouldBeNil)

	for _, name := range []string{WarpedImageName, GridImageName, RecognizedImageName, ReportName} {
		_, err := os.Stat(filepath.Join(dir, name))
		test.That(t, err, test.ShouldBeNil)
	}

	report, err := os.ReadFile(filepath.Join(dir, ReportName))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(report), test.ShouldContainSubstring, rec.Grid.PositionString())
}
