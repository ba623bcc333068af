package domain

import "context"

// SessionizeFetcher loads a published Sessionize schedule (or a test double).
type SessionizeFetcher interface {
	Fetch(ctx context.Context, sessionizeID string) (SessionizeSchedule, error)
}

// SessionizeSchedule is the part of the Sessionize "All" view used to prefill a draft.
type SessionizeSchedule struct {
	Sessions []SessionizeSession `json:"sessions"`
	Speakers []SessionizeSpeaker `json:"speakers"`
}

// SessionizeSession is one session. StartsAt and EndsAt are local wall-clock
// timestamps without a zone, e.g. "2026-03-01T09:30:00".
type SessionizeSession struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      *string  `json:"description"`
	StartsAt         string   `json:"startsAt"`
	EndsAt           string   `json:"endsAt"`
	IsServiceSession bool     `json:"isServiceSession"`
	Speakers         []string `json:"speakers"`
}

// SessionizeSpeaker is one speaker.
type SessionizeSpeaker struct {
	ID             string           `json:"id"`
	FullName       string           `json:"fullName"`
	TagLine        string           `json:"tagLine"`
	ProfilePicture string           `json:"profilePicture"`
	Links          []SessionizeLink `json:"links"`
}

// SessionizeLink is a speaker's social or web link.
type SessionizeLink struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	LinkType string `json:"linkType"`
}
