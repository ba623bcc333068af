package services

import (
	"strings"

	"infinitebz/internal/domain"
	"infinitebz/internal/draft"
)

// importSchedule appends the schedule's speakers and non-service sessions to d
// through the regular list editors, so imported items get fresh ids.
func importSchedule(d draft.Draft, schedule domain.SessionizeSchedule) (draft.Draft, error) {
	var err error
	for _, sp := range schedule.Speakers {
		var id draft.ItemID
		d, id = d.AddSpeaker()
		fields := []struct {
			f draft.SpeakerField
			v string
		}{
			{draft.SpeakerName, sp.FullName},
			{draft.SpeakerRole, sp.TagLine},
			{draft.SpeakerImageURL, sp.ProfilePicture},
			{draft.SpeakerLinkedIn, linkOfType(sp.Links, "LinkedIn")},
			{draft.SpeakerTwitter, linkOfType(sp.Links, "Twitter")},
		}
		for _, fv := range fields {
			if fv.v == "" {
				continue
			}
			if d, err = d.UpdateSpeaker(id, fv.f, fv.v); err != nil {
				return d, err
			}
		}
	}

	for _, sess := range schedule.Sessions {
		if sess.IsServiceSession {
			continue
		}
		var id draft.ItemID
		d, id = d.AddAgendaItem()
		description := ""
		if sess.Description != nil {
			description = *sess.Description
		}
		fields := []struct {
			f draft.AgendaField
			v string
		}{
			{draft.AgendaStartTime, clockOf(sess.StartsAt)},
			{draft.AgendaEndTime, clockOf(sess.EndsAt)},
			{draft.AgendaTitle, sess.Title},
			{draft.AgendaDescription, description},
		}
		for _, fv := range fields {
			if fv.v == "" {
				continue
			}
			if d, err = d.UpdateAgendaItem(id, fv.f, fv.v); err != nil {
				return d, err
			}
		}
		if d.StartDate == "" {
			if date := dateOf(sess.StartsAt); date != "" {
				if d, err = d.WithField(draft.FieldStartDate, draft.Date(date)); err != nil {
					return d, err
				}
			}
		}
	}
	return d, nil
}

func linkOfType(links []domain.SessionizeLink, linkType string) string {
	for _, l := range links {
		if strings.EqualFold(l.LinkType, linkType) {
			return l.URL
		}
	}
	return ""
}

// clockOf returns the HH:MM part of a "2006-01-02T15:04:05" timestamp.
func clockOf(ts string) string {
	_, clock, ok := strings.Cut(ts, "T")
	if !ok || len(clock) < 5 {
		return ""
	}
	return clock[:5]
}

// dateOf returns the date part of a "2006-01-02T15:04:05" timestamp.
func dateOf(ts string) string {
	date, _, ok := strings.Cut(ts, "T")
	if !ok {
		return ""
	}
	return date
}
