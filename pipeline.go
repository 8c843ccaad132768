package chessvision

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/rimage"
)

// Config owns every tunable of the pipeline. Construct it once, hand it to
// NewRecognizer; there is no package-level shared state.
type Config struct {
	// BoardSize is the rectified board edge in pixels; it must be a
	// multiple of 8 so cells divide evenly.
	BoardSize int
	// Workers bounds the goroutines classifying cells in parallel.
	Workers int

	Locator    LocatorConfig
	Classifier ClassifierConfig
}

func DefaultConfig() Config {
	return Config{
		BoardSize:  800,
		Workers:    8,
		Locator:    DefaultLocatorConfig(),
		Classifier: DefaultClassifierConfig(),
	}
}

func (c Config) validate() error {
	if c.BoardSize <= 0 || c.BoardSize%8 != 0 {
		return fmt.Errorf("board size %d is not a positive multiple of 8", c.BoardSize)
	}
	return nil
}

// Recognizer runs the full photo-to-position pipeline. It is safe to reuse
// across images; every run produces a fresh Recognition with no shared
// mutable state.
type Recognizer struct {
	conf   Config
	logger logging.Logger
}

func NewRecognizer(conf Config, logger logging.Logger) (*Recognizer, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return &Recognizer{conf: conf, logger: logger}, nil
}

// Recognition is the output of one pipeline run.
type Recognition struct {
	// Corners of the located board in the source photo, ordered
	// top-left, top-right, bottom-right, bottom-left.
	Corners []image.Point
	// Rectified is the top-down board image.
	Rectified *image.RGBA
	// Grid holds all 64 cell labels.
	Grid BoardGrid
}

// RecognizeFile loads a photo and recognizes the board on it.
func (r *Recognizer) RecognizeFile(ctx context.Context, path string) (*Recognition, error) {
	img, err := rimage.ReadImageFromFile(path)
	if err != nil {
		return nil, stageErr(StageLoad, err)
	}
	return r.Recognize(ctx, img)
}

// Recognize runs locate -> rectify -> segment -> classify on a photo.
// A stage failure aborts the run; no partial grid is ever returned.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image) (*Recognition, error) {
	corners, err := findBoard(img, r.conf.Locator)
	if err != nil {
		return nil, stageErr(StageLocate, err)
	}
	ordered := orderCorners(corners)
	r.logger.Debugf("board corners: %v", ordered)

	rectified, err := perspectiveTransform(img, corners, r.conf.BoardSize)
	if err != nil {
		return nil, stageErr(StageRectify, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid := classifyGrid(rectified, r.conf.BoardSize, r.conf.Classifier, r.conf.Workers)

	counts := grid.Counts()
	r.logger.Infof("recognized board: %d empty, %d white, %d black, %d unknown",
		counts.Empty, counts.White, counts.Black, counts.Unknown)

	return &Recognition{
		Corners:   ordered[:],
		Rectified: rectified,
		Grid:      grid,
	}, nil
}

// Diagnostic artifact names written by SaveDiagnostics.
const (
	WarpedImageName     = "board_warped.jpg"
	GridImageName       = "board_grid.jpg"
	RecognizedImageName = "board_recognized.jpg"
	ReportName          = "report.txt"
)

// SaveDiagnostics writes the rectified board, the grid overlay, the
// colorized recognition rendering, and the text report into dir. Write
// failures are collected and reported together; they never invalidate the
// in-memory recognition itself.
func (rec *Recognition) SaveDiagnostics(dir string) error {
	var errs error

	errs = multierr.Append(errs,
		rimage.WriteImageToFile(filepath.Join(dir, WarpedImageName), rec.Rectified))
	errs = multierr.Append(errs,
		rimage.WriteImageToFile(filepath.Join(dir, GridImageName), GridOverlay(rec.Rectified)))
	errs = multierr.Append(errs,
		rimage.WriteImageToFile(filepath.Join(dir, RecognizedImageName), Visualization(&rec.Grid)))
	errs = multierr.Append(errs,
		os.WriteFile(filepath.Join(dir, ReportName), []byte(Report(&rec.Grid)), 0o644))

	return errs
}
