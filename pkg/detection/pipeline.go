// Package detection runs the disease inference pipeline: model call,
// best-detection selection, in-place image annotation.
package detection

import (
	"context"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/detector"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

// HealthyLabel is the synthetic result reported when the model returns no
// detections. This is a policy choice: an empty result set means "nothing
// wrong found", not "inference failed".
const HealthyLabel = "Healthy"

// Pipeline orchestrates one inference run per uploaded image.
type Pipeline struct {
	detector detector.Detector
	logger   *zap.Logger
}

// NewPipeline creates an inference pipeline backed by the given detector.
func NewPipeline(d detector.Detector, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		detector: d,
		logger:   logger.Named("detection"),
	}
}

// Infer runs the detection model on the image at path, draws a box for
// every detection, overwrites the image, and returns the single
// best-confidence result. Failures never propagate: any model or image
// I/O error is logged and converted into a failed result, so callers must
// check Success.
func (p *Pipeline) Infer(ctx context.Context, path string) models.DetectionResult {
	result, err := p.infer(ctx, path)
	if err != nil {
		p.logger.Error("Prediction failed",
			zap.String("image", path),
			zap.Error(err))
		return models.DetectionResult{
			Label:         "Error",
			ReadableLabel: "Prediction failed",
			Confidence:    0.0,
			Success:       false,
		}
	}
	return result
}

func (p *Pipeline) infer(ctx context.Context, path string) (models.DetectionResult, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return models.DetectionResult{}, fmt.Errorf("failed to read image: %w", err)
	}

	detected, err := p.detector.Detect(ctx, image)
	if err != nil {
		return models.DetectionResult{}, err
	}

	if len(detected.Detections) == 0 {
		// No boxes to draw; report the synthetic Healthy result.
		return models.DetectionResult{
			Label:         HealthyLabel,
			ReadableLabel: ReadableLabel(HealthyLabel),
			Confidence:    100.0,
			Success:       true,
		}, nil
	}

	best := detected.Detections[0]
	for _, d := range detected.Detections[1:] {
		// Strictly greater keeps the first-seen on ties.
		if d.Confidence > best.Confidence {
			best = d
		}
	}

	if err := annotate(path, detected.Detections); err != nil {
		return models.DetectionResult{}, err
	}

	label, ok := detected.ClassNames[best.ClassID]
	if !ok {
		return models.DetectionResult{}, fmt.Errorf("detector returned unknown class id %d", best.ClassID)
	}

	p.logger.Info("Inference complete",
		zap.String("image", path),
		zap.String("class", label),
		zap.Float64("confidence", best.Confidence),
		zap.Int("boxes", len(detected.Detections)))

	return models.DetectionResult{
		Label:         label,
		ReadableLabel: ReadableLabel(label),
		Confidence:    round2(best.Confidence * 100),
		Success:       true,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
