// Package google serves text translation and language detection through the
// Google Cloud Translation API.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"google.golang.org/api/option"

	"github.com/valpere/tlumacz/internal/domain"
)

// api is the part of *translate.Client this package uses.
type api interface {
	Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
	DetectLanguage(ctx context.Context, inputs []string) ([][]translate.Detection, error)
	Close() error
}

type Service struct {
	client api
}

// New connects with the service account key at credentialsFile, or with
// application default credentials when it is empty. A non-empty projectID is
// billed for the requests.
func New(ctx context.Context, credentialsFile, projectID string) (*Service, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	if projectID != "" {
		opts = append(opts, option.WithQuotaProject(projectID))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Service{client: client}, nil
}

func (s *Service) Name() string {
	return "google"
}

// TranslateText translates text into target. An empty source lets Google
// detect it; an empty target is not accepted.
func (s *Service) TranslateText(ctx context.Context, text string, source, target domain.Language) (string, error) {
	if target == "" {
		return "", errors.New("target language is required")
	}

	opts := &translate.Options{Format: translate.Text}
	if source != "" {
		opts.Source = source.Tag()
	}

	translations, err := s.client.Translate(ctx, []string{text}, target.Tag(), opts)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		return "", errors.New("no translation returned")
	}
	return translations[0].Text, nil
}

// DetectLanguage answers with {"language": <English name>, "confidence": 0-100}.
func (s *Service) DetectLanguage(ctx context.Context, text string) (string, error) {
	detections, err := s.client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return "", fmt.Errorf("detection failed: %w", err)
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return "", errors.New("no detection returned")
	}

	best := detections[0][0]
	for _, d := range detections[0][1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}

	name := display.English.Tags().Name(best.Language)
	if name == "" {
		name = best.Language.String()
	}
	out, err := json.Marshal(struct {
		Language   string `json:"language"`
		Confidence int    `json:"confidence"`
	}{name, int(math.Round(best.Confidence * 100))})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (s *Service) Close() error {
	return s.client.Close()
}
