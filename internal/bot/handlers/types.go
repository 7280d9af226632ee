package handlers

import (
	"github.com/pillmate/pill-helper/internal/domain"
)

// Dependencies holds the service dependencies handlers reach for directly.
// Session-scoped services (identifier, consultant, analyzer) are wired into
// sessions by the state manager instead.
type Dependencies struct {
	Places     domain.PlacesSearcher
	Consultant domain.Consultant
}
