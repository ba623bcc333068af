package draft

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a field name is not part of the draft.
	ErrUnknownField = errors.New("unknown field")
	// ErrKindMismatch is returned when a value's kind does not match the field's declared kind.
	ErrKindMismatch = errors.New("value kind does not match field")
	// ErrInvalidMode is returned when a mode other than offline or online is set.
	ErrInvalidMode = errors.New("mode must be offline or online")
)

// Kind is the input kind of a scalar draft field.
type Kind int

const (
	KindText Kind = iota + 1
	KindBoolean
	KindNumber
	// KindDate covers both date and time picker values; they are kept as the raw wall-clock string.
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a tagged union of the values a scalar field can hold.
// Build one with Text, Bool, Number or Date.
type Value struct {
	kind Kind
	text string
	flag bool
}

// Text returns a free-text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a checkbox value.
func Bool(b bool) Value { return Value{kind: KindBoolean, flag: b} }

// Number returns a numeric input value. The raw input string is kept verbatim.
func Number(raw string) Value { return Value{kind: KindNumber, text: raw} }

// Date returns a date or time input value (e.g. "2026-03-01" or "10:00").
func Date(raw string) Value { return Value{kind: KindDate, text: raw} }

// Kind reports which constructor built v.
func (v Value) Kind() Kind { return v.kind }

// Field names a scalar field of the draft. Names match the form input names.
type Field string

const (
	FieldTitle                Field = "title"
	FieldDescription          Field = "description"
	FieldCategory             Field = "category"
	FieldLocation             Field = "location"
	FieldMeetingLink          Field = "meetingLink"
	FieldMeetingLinkPrivate   Field = "meetingLinkPrivate"
	FieldImageURL             Field = "imageUrl"
	FieldIsFree               Field = "isFree"
	FieldTicketPrice          Field = "ticketPrice"
	FieldAudience             Field = "audience"
	FieldCapacity             Field = "capacity"
	FieldRegistrationDeadline Field = "registrationDeadline"
	FieldTimezone             Field = "timezone"
	FieldStartDate            Field = "startDate"
	FieldStartTime            Field = "startTime"
	FieldEndDate              Field = "endDate"
	FieldEndTime              Field = "endTime"
)

var fieldKinds = map[Field]Kind{
	FieldTitle:                KindText,
	FieldDescription:          KindText,
	FieldCategory:             KindText,
	FieldLocation:             KindText,
	FieldMeetingLink:          KindText,
	FieldMeetingLinkPrivate:   KindBoolean,
	FieldImageURL:             KindText,
	FieldIsFree:               KindBoolean,
	FieldTicketPrice:          KindNumber,
	FieldAudience:             KindText,
	FieldCapacity:             KindNumber,
	FieldRegistrationDeadline: KindDate,
	FieldTimezone:             KindText,
	FieldStartDate:            KindDate,
	FieldStartTime:            KindDate,
	FieldEndDate:              KindDate,
	FieldEndTime:              KindDate,
}

// Kind returns the declared kind of f, or false if f is not a draft field.
func (f Field) Kind() (Kind, bool) {
	k, ok := fieldKinds[f]
	return k, ok
}

// AgendaField names an editable field of an agenda item.
type AgendaField string

const (
	AgendaStartTime   AgendaField = "startTime"
	AgendaEndTime     AgendaField = "endTime"
	AgendaTitle       AgendaField = "title"
	AgendaDescription AgendaField = "description"
)

// Valid reports whether f is an agenda item field.
func (f AgendaField) Valid() bool {
	switch f {
	case AgendaStartTime, AgendaEndTime, AgendaTitle, AgendaDescription:
		return true
	}
	return false
}

// SpeakerField names an editable field of a speaker.
type SpeakerField string

const (
	SpeakerName     SpeakerField = "name"
	SpeakerRole     SpeakerField = "role"
	SpeakerCompany  SpeakerField = "company"
	SpeakerImageURL SpeakerField = "imageUrl"
	SpeakerLinkedIn SpeakerField = "linkedIn"
	SpeakerTwitter  SpeakerField = "twitter"
)

// Valid reports whether f is a speaker field.
func (f SpeakerField) Valid() bool {
	switch f {
	case SpeakerName, SpeakerRole, SpeakerCompany, SpeakerImageURL, SpeakerLinkedIn, SpeakerTwitter:
		return true
	}
	return false
}
