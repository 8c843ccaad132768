package chessvision

import (
	"context"
	"fmt"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/data"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"
)

// BoardCameraModel wraps an upstream camera and serves the recognition
// rendering of whatever board it currently sees, for live visual QA.
var BoardCameraModel = family.WithModel("board-camera")

func init() {
	resource.RegisterComponent(camera.API, BoardCameraModel,
		resource.Registration[camera.Camera, *BoardCameraConfig]{
			Constructor: newBoardCamera,
		},
	)
}

type BoardCameraConfig struct {
	Input string // upstream camera pointed at the board
	// BoardSize overrides the rectified board edge; 0 keeps the default.
	BoardSize int `json:"board-size"`
}

func (cfg *BoardCameraConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Input == "" {
		return nil, nil, fmt.Errorf("need an input")
	}
	if cfg.BoardSize != 0 && cfg.BoardSize%8 != 0 {
		return nil, nil, fmt.Errorf("board-size %d is not a multiple of 8", cfg.BoardSize)
	}
	return []string{cfg.Input}, nil, nil
}

func newBoardCamera(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (camera.Camera, error) {
	conf, err := resource.NativeConfig[*BoardCameraConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewBoardCamera(ctx, deps, rawConf.ResourceName(), conf, logger)
}

func NewBoardCamera(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *BoardCameraConfig, logger logging.Logger) (camera.Camera, error) {
	recConf := DefaultConfig()
	if conf.BoardSize != 0 {
		recConf.BoardSize = conf.BoardSize
	}

	rec, err := NewRecognizer(recConf, logger)
	if err != nil {
		return nil, err
	}

	bc := &BoardCamera{
		name:       name,
		conf:       conf,
		logger:     logger,
		recognizer: rec,
	}

	bc.input, err = camera.FromProvider(deps, conf.Input)
	if err != nil {
		return nil, err
	}

	return bc, nil
}

type BoardCamera struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	conf   *BoardCameraConfig
	logger logging.Logger

	input      camera.Camera
	recognizer *Recognizer
}

func (bc *BoardCamera) Image(ctx context.Context, mimeType string, extra map[string]interface{}) ([]byte, camera.ImageMetadata, error) {
	return camera.GetImageFromGetImages(ctx, nil, bc, extra, nil)
}

func (bc *BoardCamera) Images(ctx context.Context, filterSourceNames []string, extra map[string]interface{}) ([]camera.NamedImage, resource.ResponseMetadata, error) {
	ni, rm, err := bc.input.Images(ctx, nil, extra)
	if err != nil {
		return nil, rm, err
	}

	if len(ni) == 0 {
		return nil, rm, fmt.Errorf("no images returned from input camera")
	}

	srcImg, err := ni[0].Image(ctx)
	if err != nil {
		return nil, rm, err
	}

	recognition, err := bc.recognizer.Recognize(ctx, srcImg)
	if err != nil {
		return nil, rm, err
	}

	dst := Visualization(&recognition.Grid)

	result, err := camera.NamedImageFromImage(dst, ni[0].SourceName, "", data.Annotations{})
	if err != nil {
		return nil, rm, err
	}
	return []camera.NamedImage{result}, rm, nil
}

func (bc *BoardCamera) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	return nil, fmt.Errorf("DoCommand not supported")
}

func (bc *BoardCamera) NextPointCloud(ctx context.Context, extra map[string]interface{}) (pointcloud.PointCloud, error) {
	return nil, fmt.Errorf("NextPointCloud not supported")
}

func (bc *BoardCamera) Properties(ctx context.Context) (camera.Properties, error) {
	return camera.Properties{}, nil
}

func (bc *BoardCamera) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	return nil, nil
}

func (bc *BoardCamera) Name() resource.Name {
	return bc.name
}
