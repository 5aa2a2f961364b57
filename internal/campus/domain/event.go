package domain

import "time"

// EventStatus is the event lifecycle state. Forward transitions are
// draft → published → ongoing → completed; cancelled is reachable from
// any state and terminal.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// FieldKind is the closed set of form-field types an event can collect at
// registration time. Choice kinds carry an options list; the rest don't.
type FieldKind string

const (
	FieldText        FieldKind = "text"
	FieldNumber      FieldKind = "number"
	FieldDate        FieldKind = "date"
	FieldSelect      FieldKind = "select"
	FieldMultiSelect FieldKind = "multiselect"
)

// Valid reports whether k is one of the known field kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldText, FieldNumber, FieldDate, FieldSelect, FieldMultiSelect:
		return true
	}
	return false
}

// Choice reports whether the kind carries an options list.
func (k FieldKind) Choice() bool {
	return k == FieldSelect || k == FieldMultiSelect
}

// FormField is one typed input slot in an event's registration form. The
// ID is generated when the field is first added and stable afterwards, so
// stored answers keep matching their field across form edits.
type FormField struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"` // choice kinds only
}

type Event struct {
	ID          string
	Title       string
	Description string
	Category    string
	Venue       string
	SocietyID   string // empty when the event is not run under a society
	OrganizerID string
	Status      EventStatus

	StartAt time.Time
	EndAt   time.Time

	RegistrationOpen    bool
	RegistrationStartAt time.Time
	RegistrationEndAt   time.Time

	TeamEvent   bool
	MinTeamSize int // team events only
	MaxTeamSize int // team events only
	MaxTeams    int // 0 means no cap

	Fields []FormField

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptsRegistrations reports whether the lifecycle state allows new
// registrations. Window and flag checks are separate.
func (e *Event) AcceptsRegistrations() bool {
	return e.Status == EventPublished || e.Status == EventOngoing
}

// FieldByID returns the form field with the given id, if any.
func (e *Event) FieldByID(id string) (FormField, bool) {
	for _, f := range e.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FormField{}, false
}
