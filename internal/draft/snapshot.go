package draft

import "encoding/json"

// Snapshot is the serialisable form of a Draft, used for autosave and API responses.
// Keys follow the create-event form's field names.
type Snapshot struct {
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Category             string       `json:"category"`
	Mode                 Mode         `json:"mode"`
	Location             string       `json:"location"`
	MeetingLink          string       `json:"meetingLink"`
	MeetingLinkPrivate   bool         `json:"meetingLinkPrivate"`
	ImageURL             string       `json:"imageUrl"`
	IsFree               bool         `json:"isFree"`
	TicketPrice          string       `json:"ticketPrice"`
	Audience             string       `json:"audience"`
	Capacity             string       `json:"capacity"`
	RegistrationDeadline string       `json:"registrationDeadline"`
	Timezone             string       `json:"timezone"`
	StartDate            string       `json:"startDate"`
	StartTime            string       `json:"startTime"`
	EndDate              string       `json:"endDate"`
	EndTime              string       `json:"endTime"`
	AgendaItems          []AgendaItem `json:"agendaItems"`
	Speakers             []Speaker    `json:"speakers"`
	Tags                 []string     `json:"tags"`
	NextID               ItemID       `json:"nextId"`
}

// Snapshot returns a deep copy of d in serialisable form.
func (d Draft) Snapshot() Snapshot {
	return Snapshot{
		Title:                d.Title,
		Description:          d.Description,
		Category:             d.Category,
		Mode:                 d.Mode,
		Location:             d.Location,
		MeetingLink:          d.MeetingLink,
		MeetingLinkPrivate:   d.MeetingLinkPrivate,
		ImageURL:             d.ImageURL,
		IsFree:               d.IsFree,
		TicketPrice:          d.TicketPrice,
		Audience:             d.Audience,
		Capacity:             d.Capacity,
		RegistrationDeadline: d.RegistrationDeadline,
		Timezone:             d.Timezone,
		StartDate:            d.StartDate,
		StartTime:            d.StartTime,
		EndDate:              d.EndDate,
		EndTime:              d.EndTime,
		AgendaItems:          d.Agenda(),
		Speakers:             d.Speakers(),
		Tags:                 d.Tags(),
		NextID:               d.nextID,
	}
}

// FromSnapshot rebuilds a Draft. Items whose id repeats an earlier item are
// dropped, and the id counter is moved past every restored id.
func FromSnapshot(s Snapshot) Draft {
	d := Draft{
		Title:                s.Title,
		Description:          s.Description,
		Category:             s.Category,
		Mode:                 s.Mode,
		Location:             s.Location,
		MeetingLink:          s.MeetingLink,
		MeetingLinkPrivate:   s.MeetingLinkPrivate,
		ImageURL:             s.ImageURL,
		IsFree:               s.IsFree,
		TicketPrice:          s.TicketPrice,
		Audience:             s.Audience,
		Capacity:             s.Capacity,
		RegistrationDeadline: s.RegistrationDeadline,
		Timezone:             s.Timezone,
		StartDate:            s.StartDate,
		StartTime:            s.StartTime,
		EndDate:              s.EndDate,
		EndTime:              s.EndTime,
		nextID:               s.NextID,
	}
	if !d.Mode.Valid() {
		d.Mode = ModeOffline
	}
	seen := make(map[ItemID]struct{})
	bump := func(id ItemID) {
		if id >= d.nextID {
			d.nextID = id + 1
		}
	}
	for _, a := range s.AgendaItems {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		d.agenda = d.agenda.add(a.ID, a)
		bump(a.ID)
	}
	for _, sp := range s.Speakers {
		if _, dup := seen[sp.ID]; dup {
			continue
		}
		seen[sp.ID] = struct{}{}
		d.speakers = d.speakers.add(sp.ID, sp)
		bump(sp.ID)
	}
	for _, t := range s.Tags {
		d = d.AddTag(t)
	}
	if d.nextID < 1 {
		d.nextID = 1
	}
	return d
}

// MarshalJSON encodes d as its Snapshot.
func (d Draft) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Snapshot())
}

// UnmarshalJSON decodes a Snapshot into d.
func (d *Draft) UnmarshalJSON(b []byte) error {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = FromSnapshot(s)
	return nil
}
