package chessvision

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
)

// RecognizerModel is a generic service that recognizes a board photo on
// demand: DoCommand {"recognize": {"path": "photo.jpg"}}.
var RecognizerModel = family.WithModel("recognizer")

func init() {
	resource.RegisterService(generic.API, RecognizerModel,
		resource.Registration[resource.Resource, *RecognizerConfig]{
			Constructor: newRecognizerService,
		},
	)
}

type RecognizerConfig struct {
	// BoardSize overrides the rectified board edge; 0 keeps the default.
	BoardSize int `json:"board-size"`
	// Workers overrides the classification worker count; 0 keeps the default.
	Workers int
}

func (cfg *RecognizerConfig) Validate(path string) ([]string, []string, error) {
	if cfg.BoardSize != 0 && cfg.BoardSize%8 != 0 {
		return nil, nil, fmt.Errorf("board-size %d is not a multiple of 8", cfg.BoardSize)
	}
	if cfg.Workers < 0 {
		return nil, nil, fmt.Errorf("workers must not be negative")
	}
	return nil, nil, nil
}

type recognizerService struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	logger logging.Logger

	recognizer *Recognizer
}

func newRecognizerService(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	conf, err := resource.NativeConfig[*RecognizerConfig](rawConf)
	if err != nil {
		return nil, err
	}

	recConf := DefaultConfig()
	if conf.BoardSize != 0 {
		recConf.BoardSize = conf.BoardSize
	}
	if conf.Workers != 0 {
		recConf.Workers = conf.Workers
	}

	rec, err := NewRecognizer(recConf, logger)
	if err != nil {
		return nil, err
	}

	return &recognizerService{
		name:       rawConf.ResourceName(),
		logger:     logger,
		recognizer: rec,
	}, nil
}

func (s *recognizerService) Name() resource.Name {
	return s.name
}

// ----

type RecognizeCmd struct {
	Path      string
	OutputDir string `mapstructure:"output-dir"`
}

type cmdStruct struct {
	Recognize RecognizeCmd
}

func (s *recognizerService) DoCommand(ctx context.Context, cmdMap map[string]interface{}) (map[string]interface{}, error) {
	var cmd cmdStruct
	err := mapstructure.Decode(cmdMap, &cmd)
	if err != nil {
		return nil, err
	}

	if cmd.Recognize.Path == "" {
		return nil, fmt.Errorf("bad cmd %v", cmdMap)
	}

	s.logger.Infof("recognize %v", cmd.Recognize.Path)

	recognition, err := s.recognizer.RecognizeFile(ctx, cmd.Recognize.Path)
	if err != nil {
		return nil, err
	}

	counts := recognition.Grid.Counts()
	result := map[string]interface{}{
		"position": recognition.Grid.PositionString(),
		"empty":    counts.Empty,
		"white":    counts.White,
		"black":    counts.Black,
		"unknown":  counts.Unknown,
	}

	// a full FEN only exists when every occupant's color resolved
	if fen, err := recognition.Grid.FEN(); err == nil {
		result["fen"] = fen
	} else {
		s.logger.Warnf("no valid FEN for position: %v", err)
	}

	if cmd.Recognize.OutputDir != "" {
		if err := recognition.SaveDiagnostics(cmd.Recognize.OutputDir); err != nil {
			s.logger.Warnf("diagnostics incomplete: %v", err)
		} else {
			result["diagnostics"] = cmd.Recognize.OutputDir
		}
	}

	return result, nil
}
