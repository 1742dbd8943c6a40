package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// VisionEngine распознаёт текст через Google Cloud Vision.
type VisionEngine struct {
	svc *vision.Service
}

func NewVisionEngine(ctx context.Context, apiKey string) (*VisionEngine, error) {
	svc, err := vision.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &VisionEngine{svc: svc}, nil
}

func (e *VisionEngine) RecognizeText(ctx context.Context, image []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image: &vision.Image{
				Content: base64.StdEncoding.EncodeToString(image),
			},
			Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
			ImageContext: &vision.ImageContext{
				LanguageHints: []string{"ru", "en"},
			},
		}},
	}

	var resp *vision.BatchAnnotateImagesResponse
	err := retry.Do(
		func() error {
			r, err := e.svc.Images.Annotate(req).Context(ctx).Do()
			if err != nil {
				return err
			}
			resp = r
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("vision annotate: %w", err)
	}

	if len(resp.Responses) == 0 {
		return "", nil
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision annotate: %s", r.Error.Message)
	}
	if r.FullTextAnnotation != nil {
		return r.FullTextAnnotation.Text, nil
	}
	if len(r.TextAnnotations) > 0 {
		return r.TextAnnotations[0].Description, nil
	}
	return "", nil
}
