package domain

import (
	"context"
)

// Identifier maps a pill photo to ranked name candidates.
type Identifier interface {
	Identify(ctx context.Context, imageURI string) (*IdentifyResult, error)
}

// Consultant generates advice text for an identified drug and a chosen topic.
type Consultant interface {
	Consult(ctx context.Context, classID int, topic string) (string, error)
}

// PrescriptionAnalyzer uploads a prescription or pharmacy bag image and
// returns the detected data.
type PrescriptionAnalyzer interface {
	Analyze(ctx context.Context, imageURI string, mode PrescriptionMode) (PrescriptionResult, error)
}

// NotificationScheduler schedules recurring daily notifications. The returned
// handle identifies the scheduled job for later cancellation.
type NotificationScheduler interface {
	ScheduleDaily(hour, minute int, title, body string) (int, error)
	Cancel(id int)
}

// PlacesSearcher queries the places provider for pharmacies.
type PlacesSearcher interface {
	NearbySearch(ctx context.Context, lat, lng float64) ([]Place, error)
	TextSearch(ctx context.Context, keyword string, bias *LatLng) ([]Place, error)
}
