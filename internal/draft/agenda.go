package draft

import "fmt"

// AgendaItem is one session on the event agenda.
type AgendaItem struct {
	ID          ItemID `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (a AgendaItem) with(f AgendaField, value string) AgendaItem {
	switch f {
	case AgendaStartTime:
		a.StartTime = value
	case AgendaEndTime:
		a.EndTime = value
	case AgendaTitle:
		a.Title = value
	case AgendaDescription:
		a.Description = value
	}
	return a
}

// Agenda returns the agenda items in display order.
func (d Draft) Agenda() []AgendaItem {
	return d.agenda.list()
}

// AgendaItem returns the agenda item with the given id.
func (d Draft) AgendaItem(id ItemID) (AgendaItem, bool) {
	return d.agenda.get(id)
}

// AddAgendaItem appends an empty agenda item and returns the new draft and the item's id.
func (d Draft) AddAgendaItem() (Draft, ItemID) {
	d, id := d.allocID()
	d.agenda = d.agenda.add(id, AgendaItem{ID: id})
	return d, id
}

// UpdateAgendaItem sets one field of the item at id. A missing id is a no-op.
func (d Draft) UpdateAgendaItem(id ItemID, f AgendaField, value string) (Draft, error) {
	if !f.Valid() {
		return d, fmt.Errorf("%w: agenda item %q", ErrUnknownField, f)
	}
	d.agenda, _ = d.agenda.update(id, func(a AgendaItem) AgendaItem { return a.with(f, value) })
	return d, nil
}

// RemoveAgendaItem drops the item at id. A missing id is a no-op; surviving ids are unchanged.
func (d Draft) RemoveAgendaItem(id ItemID) Draft {
	d.agenda, _ = d.agenda.remove(id)
	return d
}
