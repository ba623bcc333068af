package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"infinitebz/internal/draft"
)

// CreateDraftRequest is the optional request body for POST /drafts.
type CreateDraftRequest struct {
	// Timezone is the IANA zone of the editor; the server default applies when empty.
	Timezone string `json:"timezone"`
}

// SetFieldRequest is the request body for PATCH /drafts/{draftID}/fields.
// Value is a JSON boolean for checkbox fields and a string for the rest;
// number fields also accept a JSON number.
type SetFieldRequest struct {
	Field string          `json:"field" validate:"required"`
	Value json.RawMessage `json:"value" swaggertype:"string"`
}

// Validate implements Validator.
func (s SetFieldRequest) Validate() []string {
	var errs []string
	if s.Field != "" {
		if _, ok := draft.Field(s.Field).Kind(); !ok {
			errs = append(errs, fmt.Sprintf("unknown field %q", s.Field))
		}
	}
	if len(bytes.TrimSpace(s.Value)) == 0 {
		errs = append(errs, "value is required")
	}
	return errs
}

// SetModeRequest is the request body for PUT /drafts/{draftID}/mode.
type SetModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=offline online"`
}

// UpdateAgendaItemRequest is the request body for PATCH /drafts/{draftID}/agenda/{itemID}.
type UpdateAgendaItemRequest struct {
	Field string `json:"field" validate:"required,oneof=startTime endTime title description"`
	Value string `json:"value"`
}

// UpdateSpeakerRequest is the request body for PATCH /drafts/{draftID}/speakers/{itemID}.
type UpdateSpeakerRequest struct {
	Field string `json:"field" validate:"required,oneof=name role company imageUrl linkedIn twitter"`
	Value string `json:"value"`
}

// AddTagRequest is the request body for POST /drafts/{draftID}/tags.
type AddTagRequest struct {
	Tag string `json:"tag"`
}

// fieldValue decodes raw according to the declared kind of field.
func fieldValue(field draft.Field, raw json.RawMessage) (draft.Value, error) {
	kind, ok := field.Kind()
	if !ok {
		return draft.Value{}, fmt.Errorf("unknown field %q", field)
	}
	switch kind {
	case draft.KindBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return draft.Value{}, fmt.Errorf("%s expects a boolean", field)
		}
		return draft.Bool(b), nil
	case draft.KindNumber:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return draft.Number(n.String()), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return draft.Value{}, fmt.Errorf("%s expects a number or string", field)
		}
		return draft.Number(s), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return draft.Value{}, fmt.Errorf("%s expects a string", field)
	}
	if kind == draft.KindDate {
		return draft.Date(s), nil
	}
	return draft.Text(s), nil
}

func parseItemID(raw string) (draft.ItemID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid item id %q", raw)
	}
	return draft.ItemID(n), nil
}
