package schedule

import "github.com/google/uuid"

// Competitor is a tournament participant. ID is stable for the life of the
// tournament; Name is display text and may change after a schedule is built.
type Competitor struct {
	ID   string
	Name string
}

// NewCompetitor returns a competitor with a freshly generated identity.
func NewCompetitor(name string) Competitor {
	return Competitor{ID: uuid.NewString(), Name: name}
}
