// Package draft holds the in-progress definition of an event being created and
// the pure operations that edit it and turn it into the creation payload.
//
// A Draft is a value. Every operation returns a new Draft and never modifies
// the receiver, so a snapshot handed to a reader stays consistent while the
// owner keeps editing.
package draft

import (
	"fmt"
	"unicode/utf8"
)

// Mode tells whether an event happens at a physical venue or online.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Valid reports whether m is offline or online.
func (m Mode) Valid() bool {
	return m == ModeOffline || m == ModeOnline
}

// DescriptionSoftLimit is the character count shown next to the description.
// It is a display hint only and is not enforced.
const DescriptionSoftLimit = 2000

// Option sets offered by the create-event form.
var (
	Categories = []string{"Conference", "Workshop", "Networking", "Seminar"}
	Audiences  = []string{"General Public", "Developers", "Founders", "Students"}
)

// Defaults applied by New.
const (
	DefaultCategory    = "Conference"
	DefaultAudience    = "General Public"
	DefaultStartTime   = "10:00"
	DefaultEndTime     = "12:00"
	DefaultTicketPrice = "0"
)

// Draft is one in-progress event definition.
type Draft struct {
	Title                string
	Description          string
	Category             string
	Mode                 Mode
	Location             string
	MeetingLink          string
	MeetingLinkPrivate   bool
	ImageURL             string
	IsFree               bool
	TicketPrice          string
	Audience             string
	Capacity             string
	RegistrationDeadline string
	Timezone             string
	StartDate            string
	StartTime            string
	EndDate              string
	EndTime              string

	agenda   arena[AgendaItem]
	speakers arena[Speaker]
	tags     []string
	nextID   ItemID
}

// New returns an empty draft with the form defaults. timezone is the IANA zone
// of the editing session.
func New(timezone string) Draft {
	return Draft{
		Category:           DefaultCategory,
		Mode:               ModeOffline,
		MeetingLinkPrivate: true,
		IsFree:             true,
		TicketPrice:        DefaultTicketPrice,
		Audience:           DefaultAudience,
		Timezone:           timezone,
		StartTime:          DefaultStartTime,
		EndTime:            DefaultEndTime,
		nextID:             1,
	}
}

// WithField returns a copy of d with one scalar field replaced. The value's kind
// must match the field's declared kind; no other validation happens here.
func (d Draft) WithField(f Field, v Value) (Draft, error) {
	want, ok := f.Kind()
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if v.kind != want {
		return d, fmt.Errorf("%w: %s expects %s, got %s", ErrKindMismatch, f, want, v.kind)
	}
	switch f {
	case FieldTitle:
		d.Title = v.text
	case FieldDescription:
		d.Description = v.text
	case FieldCategory:
		d.Category = v.text
	case FieldLocation:
		d.Location = v.text
	case FieldMeetingLink:
		d.MeetingLink = v.text
	case FieldMeetingLinkPrivate:
		d.MeetingLinkPrivate = v.flag
	case FieldImageURL:
		d.ImageURL = v.text
	case FieldIsFree:
		d.IsFree = v.flag
	case FieldTicketPrice:
		d.TicketPrice = v.text
	case FieldAudience:
		d.Audience = v.text
	case FieldCapacity:
		d.Capacity = v.text
	case FieldRegistrationDeadline:
		d.RegistrationDeadline = v.text
	case FieldTimezone:
		d.Timezone = v.text
	case FieldStartDate:
		d.StartDate = v.text
	case FieldStartTime:
		d.StartTime = v.text
	case FieldEndDate:
		d.EndDate = v.text
	case FieldEndTime:
		d.EndTime = v.text
	}
	return d, nil
}

// WithMode returns a copy of d with the mode set. Location and meeting link are
// both kept so switching back restores what the user typed.
func (d Draft) WithMode(m Mode) (Draft, error) {
	if !m.Valid() {
		return d, fmt.Errorf("%w: %q", ErrInvalidMode, m)
	}
	d.Mode = m
	return d, nil
}

// DescriptionLength returns the description length in characters.
func (d Draft) DescriptionLength() int {
	return utf8.RuneCountInString(d.Description)
}

// EffectiveEndDate is the end date used for the payload: EndDate, or StartDate when EndDate is blank.
func (d Draft) EffectiveEndDate() string {
	if d.EndDate == "" {
		return d.StartDate
	}
	return d.EndDate
}

func (d Draft) allocID() (Draft, ItemID) {
	if d.nextID < 1 {
		d.nextID = 1
	}
	id := d.nextID
	d.nextID++
	return d, id
}
