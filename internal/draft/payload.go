package draft

import "math"

// Venue values sent for online events in place of a physical location.
const (
	OnlineVenueName    = "Online Event"
	OnlineVenueAddress = "Online"
)

// Payload is the body sent to the event creation endpoint. Field names are the
// wire contract of the upstream API.
type Payload struct {
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Category             string       `json:"category"`
	StartTime            string       `json:"start_time"`
	EndTime              string       `json:"end_time"`
	IsFree               bool         `json:"is_free"`
	Price                string       `json:"price"`
	VenueName            string       `json:"venue_name"`
	VenueAddress         string       `json:"venue_address"`
	OnlineEvent          bool         `json:"online_event"`
	MeetingLink          string       `json:"meeting_link"`
	MeetingLinkPrivate   bool         `json:"meeting_link_private"`
	ImageURL             string       `json:"image_url"`
	Timezone             string       `json:"timezone"`
	Capacity             *int         `json:"capacity"`
	RegistrationDeadline *string      `json:"registration_deadline"`
	Agenda               []AgendaItem `json:"agenda"`
	Speakers             []Speaker    `json:"speakers"`
	Audience             string       `json:"audience"`
	Tags                 []string     `json:"tags"`
}

// Assemble derives the creation payload from d. It has no side effects and
// returns equal payloads for equal drafts.
//
// Date and time strings are concatenated as local wall-clock values; the
// Timezone field tells the backend how to read them.
func Assemble(d Draft) Payload {
	p := Payload{
		Title:              d.Title,
		Description:        d.Description,
		Category:           d.Category,
		StartTime:          d.StartDate + "T" + d.StartTime + ":00",
		EndTime:            d.EffectiveEndDate() + "T" + d.EndTime + ":00",
		IsFree:             d.IsFree,
		Price:              "0",
		MeetingLink:        d.MeetingLink,
		MeetingLinkPrivate: d.MeetingLinkPrivate,
		ImageURL:           d.ImageURL,
		Timezone:           d.Timezone,
		Capacity:           parseCapacity(d.Capacity),
		Agenda:             d.Agenda(),
		Speakers:           d.Speakers(),
		Audience:           d.Audience,
		Tags:               d.Tags(),
	}
	if !d.IsFree {
		p.Price = d.TicketPrice
	}
	if d.Mode == ModeOnline {
		p.VenueName = OnlineVenueName
		p.VenueAddress = OnlineVenueAddress
		p.OnlineEvent = true
	} else {
		p.VenueName = d.Location
		p.VenueAddress = d.Location
	}
	if d.RegistrationDeadline != "" {
		deadline := d.RegistrationDeadline + "T23:59:00"
		p.RegistrationDeadline = &deadline
	}
	return p
}

// parseCapacity reads the leading integer of raw the way a form number input
// is read: surrounding spaces and an optional sign are accepted, trailing junk
// is ignored. No digits at all, or a value beyond int32, means no capacity limit.
func parseCapacity(raw string) *int {
	i := 0
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
		i++
	}
	neg := false
	if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
		neg = raw[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		n = n*10 + int(raw[i]-'0')
		if n > math.MaxInt32 {
			return nil
		}
		i++
	}
	if i == start {
		return nil
	}
	if neg {
		n = -n
	}
	return &n
}
