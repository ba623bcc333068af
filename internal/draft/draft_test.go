package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	d := New("Asia/Kolkata")

	assert.Equal(t, "Conference", d.Category)
	assert.Equal(t, ModeOffline, d.Mode)
	assert.True(t, d.IsFree)
	assert.True(t, d.MeetingLinkPrivate)
	assert.Equal(t, "0", d.TicketPrice)
	assert.Equal(t, "General Public", d.Audience)
	assert.Equal(t, "Asia/Kolkata", d.Timezone)
	assert.Equal(t, "10:00", d.StartTime)
	assert.Equal(t, "12:00", d.EndTime)
	assert.Empty(t, d.Agenda())
	assert.Empty(t, d.Speakers())
	assert.Empty(t, d.Tags())
}

func TestWithField(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		value   Value
		check   func(t *testing.T, d Draft)
		wantErr error
	}{
		{
			name:  "text field",
			field: FieldTitle,
			value: Text("Chennai Tech Summit"),
			check: func(t *testing.T, d Draft) { assert.Equal(t, "Chennai Tech Summit", d.Title) },
		},
		{
			name:  "checkbox stores the boolean",
			field: FieldIsFree,
			value: Bool(false),
			check: func(t *testing.T, d Draft) { assert.False(t, d.IsFree) },
		},
		{
			name:  "number keeps raw input",
			field: FieldTicketPrice,
			value: Number("499"),
			check: func(t *testing.T, d Draft) { assert.Equal(t, "499", d.TicketPrice) },
		},
		{
			name:  "date field",
			field: FieldStartDate,
			value: Date("2026-03-01"),
			check: func(t *testing.T, d Draft) { assert.Equal(t, "2026-03-01", d.StartDate) },
		},
		{
			name:    "kind mismatch",
			field:   FieldIsFree,
			value:   Text("true"),
			wantErr: ErrKindMismatch,
		},
		{
			name:    "unknown field",
			field:   Field("organizer"),
			value:   Text("x"),
			wantErr: ErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := New("UTC")
			after, err := before.WithField(tt.field, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, after)
				return
			}
			require.NoError(t, err)
			tt.check(t, after)
			assert.Equal(t, New("UTC"), before, "receiver must not change")
		})
	}
}

func TestWithMode_KeepsLocationAndLink(t *testing.T) {
	d := New("UTC")
	d, _ = d.WithField(FieldLocation, Text("123 Main St"))
	d, _ = d.WithField(FieldMeetingLink, Text("https://meet.example.com/abc"))

	d, err := d.WithMode(ModeOnline)
	require.NoError(t, err)
	d, err = d.WithMode(ModeOffline)
	require.NoError(t, err)

	assert.Equal(t, "123 Main St", d.Location)
	assert.Equal(t, "https://meet.example.com/abc", d.MeetingLink)

	_, err = d.WithMode(Mode("hybrid"))
	require.ErrorIs(t, err, ErrInvalidMode)
}

func TestDescriptionLength_CountsCharacters(t *testing.T) {
	d, _ := New("UTC").WithField(FieldDescription, Text("வணக்கம்"))
	assert.Equal(t, 7, d.DescriptionLength())
}

func TestAgenda_IDsStayDistinct(t *testing.T) {
	d := New("UTC")
	var ids []ItemID
	for i := 0; i < 5; i++ {
		var id ItemID
		d, id = d.AddAgendaItem()
		ids = append(ids, id)
	}
	d = d.RemoveAgendaItem(ids[1])
	d = d.RemoveAgendaItem(ids[3])
	d, id := d.AddAgendaItem()
	d, sid := d.AddSpeaker()

	seen := make(map[ItemID]bool)
	for _, a := range d.Agenda() {
		require.False(t, seen[a.ID], "duplicate id %d", a.ID)
		seen[a.ID] = true
	}
	for _, s := range d.Speakers() {
		require.False(t, seen[s.ID], "duplicate id %d", s.ID)
		seen[s.ID] = true
	}
	assert.NotContains(t, ids, id)
	assert.NotEqual(t, id, sid)
	assert.Equal(t, []ItemID{ids[0], ids[2], ids[4], id}, agendaIDs(d))
}

func TestAgenda_AddAppendsEmptyItem(t *testing.T) {
	d := New("UTC")
	d, first := d.AddAgendaItem()
	d, second := d.AddAgendaItem()

	items := d.Agenda()
	require.Len(t, items, 2)
	assert.Equal(t, AgendaItem{ID: second}, items[1])
	assert.Equal(t, first, items[0].ID)
}

func TestAgenda_UpdateTouchesOnlyOneField(t *testing.T) {
	d := New("UTC")
	d, a := d.AddAgendaItem()
	d, b := d.AddAgendaItem()
	d, _ = d.UpdateAgendaItem(a, AgendaTitle, "Keynote")
	d, _ = d.UpdateAgendaItem(b, AgendaTitle, "Panel")
	before := d.Agenda()

	d, err := d.UpdateAgendaItem(a, AgendaStartTime, "10:30")
	require.NoError(t, err)

	got, ok := d.AgendaItem(a)
	require.True(t, ok)
	assert.Equal(t, "10:30", got.StartTime)
	assert.Equal(t, "Keynote", got.Title)
	assert.Equal(t, before[1], d.Agenda()[1])
	assert.Equal(t, []ItemID{a, b}, agendaIDs(d))
}

func TestAgenda_MissingIDIsNoop(t *testing.T) {
	d := New("UTC")
	d, a := d.AddAgendaItem()
	d, _ = d.UpdateAgendaItem(a, AgendaTitle, "Keynote")

	updated, err := d.UpdateAgendaItem(ItemID(999), AgendaTitle, "nope")
	require.NoError(t, err)
	assert.Equal(t, d.Agenda(), updated.Agenda())

	removed := d.RemoveAgendaItem(ItemID(999))
	assert.Equal(t, d.Agenda(), removed.Agenda())

	_, err = d.UpdateAgendaItem(a, AgendaField("room"), "A")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestAgenda_EditsDoNotLeakIntoEarlierSnapshots(t *testing.T) {
	d := New("UTC")
	d, a := d.AddAgendaItem()
	snapshot := d

	d, _ = d.UpdateAgendaItem(a, AgendaTitle, "Keynote")
	d, _ = d.AddAgendaItem()

	require.Len(t, snapshot.Agenda(), 1)
	assert.Equal(t, "", snapshot.Agenda()[0].Title)
	assert.Len(t, d.Agenda(), 2)
}

func TestSpeakers_UpdateAndRemove(t *testing.T) {
	d := New("UTC")
	d, a := d.AddSpeaker()
	d, b := d.AddSpeaker()
	d, c := d.AddSpeaker()

	d, err := d.UpdateSpeaker(b, SpeakerLinkedIn, "https://linkedin.com/in/priya")
	require.NoError(t, err)
	d = d.RemoveSpeaker(a)

	speakers := d.Speakers()
	require.Len(t, speakers, 2)
	assert.Equal(t, b, speakers[0].ID)
	assert.Equal(t, "https://linkedin.com/in/priya", speakers[0].LinkedIn)
	assert.Equal(t, Speaker{ID: c}, speakers[1])

	same := d.RemoveSpeaker(a)
	assert.Equal(t, d.Speakers(), same.Speakers())

	_, err = d.UpdateSpeaker(b, SpeakerField("email"), "x")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestTags(t *testing.T) {
	d := New("UTC")
	d = d.AddTag("  frontend  ")
	d = d.AddTag("frontend")
	d = d.AddTag("   ")
	d = d.AddTag("Frontend")
	d = d.AddTag("react")

	assert.Equal(t, []string{"frontend", "Frontend", "react"}, d.Tags())

	d = d.RemoveTag("Frontend")
	d = d.RemoveTag("vue")
	assert.Equal(t, []string{"frontend", "react"}, d.Tags())
}

func TestSnapshot_RestoresListsAndCounter(t *testing.T) {
	d := New("Europe/London")
	d, _ = d.WithField(FieldTitle, Text("Go Meetup"))
	d, a := d.AddAgendaItem()
	d, _ = d.UpdateAgendaItem(a, AgendaTitle, "Intro")
	d, s := d.AddSpeaker()
	d, _ = d.UpdateSpeaker(s, SpeakerName, "Priya")
	d = d.AddTag("go")

	restored := FromSnapshot(d.Snapshot())
	assert.Equal(t, d, restored)

	restored, next := restored.AddAgendaItem()
	assert.Greater(t, next, s)
}

func TestFromSnapshot_DropsDuplicateIDs(t *testing.T) {
	d := FromSnapshot(Snapshot{
		Mode: ModeOnline,
		AgendaItems: []AgendaItem{
			{ID: 7, Title: "first"},
			{ID: 7, Title: "second"},
		},
		Speakers: []Speaker{{ID: 7, Name: "clash"}, {ID: 9, Name: "Ravi"}},
		Tags:     []string{"go", "go", " "},
	})

	require.Len(t, d.Agenda(), 1)
	assert.Equal(t, "first", d.Agenda()[0].Title)
	require.Len(t, d.Speakers(), 1)
	assert.Equal(t, ItemID(9), d.Speakers()[0].ID)
	assert.Equal(t, []string{"go"}, d.Tags())

	_, id := d.AddSpeaker()
	assert.Equal(t, ItemID(10), id)
}

func agendaIDs(d Draft) []ItemID {
	var ids []ItemID
	for _, a := range d.Agenda() {
		ids = append(ids, a.ID)
	}
	return ids
}
