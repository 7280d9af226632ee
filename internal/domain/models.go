package domain

import (
	"time"
)

// Pill is a medication the user added to their personal list.
// Identity is the backend class id of the identified drug.
type Pill struct {
	ID      string
	Name    string
	AddedAt time.Time
}

// Candidate is one ranked match from pill image identification.
type Candidate struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// IdentifyResult is the outcome of a single pill image submission.
// BestMatch is nil when the model could not settle on a candidate.
type IdentifyResult struct {
	ExtractedText string      `json:"extracted_text"`
	BestMatch     *Candidate  `json:"best_match"`
	Candidates    []Candidate `json:"candidates"`
}

// PrescriptionMode selects which document type the analysis backend expects.
type PrescriptionMode string

const (
	ModePharmacyBag          PrescriptionMode = "prescription"
	ModeHospitalPrescription PrescriptionMode = "hospital_prescription"
)

// PrescriptionResult carries the loosely structured payload returned by the
// analysis backend. The field set varies by mode and model version, so
// renderers have to degrade gracefully when fields are absent.
type PrescriptionResult map[string]interface{}

// medicationKeys are the payload fields that may hold a medication list.
var medicationKeys = []string{"medications", "prescribed_drugs", "detected_items"}

// Medications returns the first recognizable medication list in the payload,
// or nil when none is present.
func (r PrescriptionResult) Medications() []interface{} {
	for _, key := range medicationKeys {
		if v, ok := r[key].([]interface{}); ok {
			return v
		}
	}
	return nil
}

// HasMedications reports whether the payload contains any medication list
// field at all. Its presence is what distinguishes a usable analysis from an
// unclear one.
func (r PrescriptionResult) HasMedications() bool {
	for _, key := range medicationKeys {
		if v, ok := r[key]; ok && v != nil {
			return true
		}
	}
	return false
}

// StringField returns the named payload field as a string when present.
func (r PrescriptionResult) StringField(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

// MessageRole is the author side of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageType tags the Message union. Exactly one payload field is set per
// type; renderers switch on it exhaustively.
type MessageType string

const (
	MessageText               MessageType = "text"
	MessageImage              MessageType = "image"
	MessageIdentify           MessageType = "identify"
	MessageTopics             MessageType = "topic"
	MessageTyping             MessageType = "typing"
	MessagePillResult         MessageType = "pill_result"
	MessagePrescriptionResult MessageType = "prescription_result"
)

// Message is one entry of a session's ordered log.
type Message struct {
	ID           string
	Role         MessageRole
	Type         MessageType
	Text         string
	ImageURI     string
	Identify     *IdentifyResult
	Topics       []string
	Pill         *Pill
	Prescription PrescriptionResult
}

// ReminderPreset is one of the 10 fixed alarm slots (keys p1..p10). A slot is
// enabled iff NotificationID is set. Slots are reconfigured, never created or
// destroyed.
type ReminderPreset struct {
	Key             string
	Time            string // "HH:MM", 24-hour
	SelectedPillIDs map[string]bool
	NotificationID  *int
}

// Enabled reports whether the slot currently holds a scheduled notification.
func (p *ReminderPreset) Enabled() bool {
	return p.NotificationID != nil
}

// Place is a pharmacy returned by the places provider.
type Place struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	Vicinity         string `json:"vicinity"`
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location LatLng `json:"location"`
	} `json:"geometry"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address returns whichever address field the provider populated.
func (p *Place) Address() string {
	if p.Vicinity != "" {
		return p.Vicinity
	}
	return p.FormattedAddress
}
