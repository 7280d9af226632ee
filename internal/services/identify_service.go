package services

import (
	"context"

	"github.com/pillmate/pill-helper/internal/domain"
)

// StaticIdentifier is the stand-in pill identifier used until the detection
// model is reachable from the client. It always recognizes the reference
// drug the model was first trained on, which keeps the whole conversation
// flow exercisable end to end.
//
// TODO: replace with an HTTP client once the backend exposes the YOLO
// inference endpoint directly.
type StaticIdentifier struct{}

// NewStaticIdentifier creates the stub identifier.
func NewStaticIdentifier() *StaticIdentifier {
	return &StaticIdentifier{}
}

// Identify returns the fixed reference candidate regardless of input.
func (s *StaticIdentifier) Identify(ctx context.Context, imageURI string) (*domain.IdentifyResult, error) {
	candidate := domain.Candidate{
		ID:    "0",
		Name:  "타치온정50밀리그램(글루타티온(환원형))",
		Score: 99,
	}
	return &domain.IdentifyResult{
		ExtractedText: "TACHION",
		BestMatch:     &candidate,
		Candidates:    []domain.Candidate{candidate},
	}, nil
}
