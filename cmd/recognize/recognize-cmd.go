package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/rimage"

	"chessvision"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input.jpg> [output-dir]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  Writes the rectified board, grid overlay, recognition\n")
		fmt.Fprintf(os.Stderr, "  rendering and a text report into output-dir (default: the\n")
		fmt.Fprintf(os.Stderr, "  input file's directory).\n")
		os.Exit(1)
	}

	inputFile := os.Args[1]
	outputDir := filepath.Dir(inputFile)
	if len(os.Args) >= 3 {
		outputDir = os.Args[2]
	}

	logger := logging.NewLogger("recognize")

	recognizer, err := chessvision.NewRecognizer(chessvision.DefaultConfig(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	recognition, err := recognizer.RecognizeFile(context.Background(), inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var se *chessvision.StageError
		if errors.As(err, &se) {
			switch se.Stage {
			case chessvision.StageLoad:
				fmt.Fprintf(os.Stderr, "Check that the photo exists and is a readable JPEG or PNG.\n")
			case chessvision.StageLocate:
				fmt.Fprintf(os.Stderr, "Retake the photo with the whole board visible and good contrast.\n")
			case chessvision.StageRectify:
				fmt.Fprintf(os.Stderr, "The detected board outline is degenerate; retake the photo from a steeper angle.\n")
			}
		}
		os.Exit(1)
	}

	fmt.Print(chessvision.Report(&recognition.Grid))

	if fen, err := recognition.Grid.FEN(); err == nil {
		fmt.Printf("\nFEN: %s\n", fen)
	} else {
		fmt.Printf("\nno valid FEN: %v\n", err)
	}

	// mark the detected corners on a copy of the photo
	input, err := rimage.ReadImageFromFile(inputFile)
	if err == nil {
		marked := chessvision.MarkCorners(input, recognition.Corners)
		markedFile := filepath.Join(outputDir, "board_corners.jpg")
		if err := rimage.WriteImageToFile(markedFile, marked); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not write %s: %v\n", markedFile, err)
		}
	}

	if err := recognition.SaveDiagnostics(outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: some diagnostics failed: %v\n", err)
	}
	fmt.Printf("\ndiagnostics written to %s\n", outputDir)
}
