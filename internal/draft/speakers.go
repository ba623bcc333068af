package draft

import "fmt"

// Speaker is a person presenting at the event.
type Speaker struct {
	ID       ItemID `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Company  string `json:"company"`
	ImageURL string `json:"imageUrl"`
	LinkedIn string `json:"linkedIn"`
	Twitter  string `json:"twitter"`
}

func (s Speaker) with(f SpeakerField, value string) Speaker {
	switch f {
	case SpeakerName:
		s.Name = value
	case SpeakerRole:
		s.Role = value
	case SpeakerCompany:
		s.Company = value
	case SpeakerImageURL:
		s.ImageURL = value
	case SpeakerLinkedIn:
		s.LinkedIn = value
	case SpeakerTwitter:
		s.Twitter = value
	}
	return s
}

// Speakers returns the speakers in insertion order.
func (d Draft) Speakers() []Speaker {
	return d.speakers.list()
}

// Speaker returns the speaker with the given id.
func (d Draft) Speaker(id ItemID) (Speaker, bool) {
	return d.speakers.get(id)
}

// AddSpeaker appends an empty speaker and returns the new draft and the speaker's id.
func (d Draft) AddSpeaker() (Draft, ItemID) {
	d, id := d.allocID()
	d.speakers = d.speakers.add(id, Speaker{ID: id})
	return d, id
}

// UpdateSpeaker sets one field of the speaker at id. A missing id is a no-op.
func (d Draft) UpdateSpeaker(id ItemID, f SpeakerField, value string) (Draft, error) {
	if !f.Valid() {
		return d, fmt.Errorf("%w: speaker %q", ErrUnknownField, f)
	}
	d.speakers, _ = d.speakers.update(id, func(s Speaker) Speaker { return s.with(f, value) })
	return d, nil
}

// RemoveSpeaker drops the speaker at id. A missing id is a no-op.
func (d Draft) RemoveSpeaker(id ItemID) Draft {
	d.speakers, _ = d.speakers.remove(id)
	return d
}
