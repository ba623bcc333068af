package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "infinitebz/internal/delivery/http/helpers"
	"infinitebz/internal/delivery/http/middleware"
	"infinitebz/internal/domain"
	"infinitebz/internal/draft"
	"infinitebz/internal/submission"
)

// maxImageBytes bounds uploaded event images.
const maxImageBytes = 10 << 20

// DraftSuccessResponse is the success envelope for endpoints returning a draft (200/201).
type DraftSuccessResponse struct {
	Data  *domain.DraftView `json:"data"`
	Error *h.APIError       `json:"error"`
}

// AddItemResponse is returned when an agenda item or speaker is appended.
type AddItemResponse struct {
	ItemID draft.ItemID      `json:"item_id"`
	Draft  *domain.DraftView `json:"draft"`
}

// AddItemSuccessResponse is the success envelope for POST /drafts/{draftID}/agenda and /speakers (201).
type AddItemSuccessResponse struct {
	Data  AddItemResponse `json:"data"`
	Error *h.APIError     `json:"error"`
}

// ListDraftsResponse is the data of GET /drafts.
type ListDraftsResponse struct {
	Drafts     []*domain.DraftSummary `json:"drafts"`
	Pagination h.PaginationMeta       `json:"pagination"`
}

// ListDraftsSuccessResponse is the success envelope for GET /drafts (200).
type ListDraftsSuccessResponse struct {
	Data  ListDraftsResponse `json:"data"`
	Error *h.APIError        `json:"error"`
}

// PayloadSuccessResponse is the success envelope for GET /drafts/{draftID}/payload (200).
type PayloadSuccessResponse struct {
	Data  draft.Payload `json:"data"`
	Error *h.APIError   `json:"error"`
}

// SubmitResponse is the envelope for POST /drafts/{draftID}/submit.
type SubmitResponse struct {
	Data  submission.Outcome `json:"data"`
	Error *h.APIError        `json:"error"`
}

type DraftController struct {
	Logger  *slog.Logger
	Service domain.DraftService
}

func NewDraftController(logger *slog.Logger, svc domain.DraftService) *DraftController {
	return &DraftController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *DraftController) session(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
	}
	return sess, ok
}

func (c *DraftController) itemID(w http.ResponseWriter, r *http.Request) (draft.ItemID, bool) {
	id, err := parseItemID(r.PathValue("itemID"))
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func (c *DraftController) writeView(w http.ResponseWriter, r *http.Request, status int, view *domain.DraftView, err error) {
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, status, view)
}

// CreateDraft godoc
// @Summary Start a new event draft
// @Description Creates an empty draft with the form defaults (10:00-12:00, offline, free). The body is optional.
// @Tags drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateDraftRequest false "Editor timezone"
// @Success 201 {object} controllers.DraftSuccessResponse "data contains the new draft"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /drafts [post]
func (c *DraftController) CreateDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	var req CreateDraftRequest
	if r.ContentLength != 0 && !h.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.Create(r.Context(), sess, req.Timezone)
	c.writeView(w, r, http.StatusCreated, view, err)
}

// ListDrafts godoc
// @Summary List my drafts
// @Description Lists the caller's drafts, most recently edited first.
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 10, max 50)"
// @Success 200 {object} controllers.ListDraftsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /drafts [get]
func (c *DraftController) ListDrafts(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	params, err := h.ParseDraftListQuery(r)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	drafts, total, err := c.Service.List(r.Context(), sess, params)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, ListDraftsResponse{
		Drafts:     drafts,
		Pagination: h.NewPaginationMeta(params, total),
	})
}

// GetDraft godoc
// @Summary Get a draft
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID} [get]
func (c *DraftController) GetDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	view, err := c.Service.Get(r.Context(), sess, r.PathValue("draftID"))
	c.writeView(w, r, http.StatusOK, view, err)
}

// DiscardDraft godoc
// @Summary Discard a draft
// @Tags drafts
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Success 204 "discarded"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (submission in flight)"
// @Router /drafts/{draftID} [delete]
func (c *DraftController) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	if err := c.Service.Discard(r.Context(), sess, r.PathValue("draftID")); err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetField godoc
// @Summary Set a draft field
// @Description Replaces one scalar field. isFree and meetingLinkPrivate take a boolean; every other field takes the raw input string. No validation happens until submit.
// @Tags drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param body body SetFieldRequest true "Field and value"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already submitted)"
// @Router /drafts/{draftID}/fields [patch]
func (c *DraftController) SetField(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	var req SetFieldRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	field := draft.Field(req.Field)
	value, err := fieldValue(field, req.Value)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	view, err := c.Service.SetField(r.Context(), sess, r.PathValue("draftID"), field, value)
	c.writeView(w, r, http.StatusOK, view, err)
}

// SetMode godoc
// @Summary Set the event mode
// @Description Switches between offline and online. Location and meeting link are both kept.
// @Tags drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param body body SetModeRequest true "Mode"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/mode [put]
func (c *DraftController) SetMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	var req SetModeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.SetMode(r.Context(), sess, r.PathValue("draftID"), draft.Mode(req.Mode))
	c.writeView(w, r, http.StatusOK, view, err)
}

// AddAgendaItem godoc
// @Summary Append an agenda item
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Success 201 {object} controllers.AddItemSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/agenda [post]
func (c *DraftController) AddAgendaItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	view, id, err := c.Service.AddAgendaItem(r.Context(), sess, r.PathValue("draftID"))
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, AddItemResponse{ItemID: id, Draft: view})
}

// UpdateAgendaItem godoc
// @Summary Update one field of an agenda item
// @Description An unknown item id leaves the agenda unchanged.
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param itemID path int true "Agenda item ID"
// @Param body body UpdateAgendaItemRequest true "Field and value"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/agenda/{itemID} [patch]
func (c *DraftController) UpdateAgendaItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	id, ok := c.itemID(w, r)
	if !ok {
		return
	}
	var req UpdateAgendaItemRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.UpdateAgendaItem(r.Context(), sess, r.PathValue("draftID"), id, draft.AgendaField(req.Field), req.Value)
	c.writeView(w, r, http.StatusOK, view, err)
}

// RemoveAgendaItem godoc
// @Summary Remove an agenda item
// @Description An unknown item id leaves the agenda unchanged.
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param itemID path int true "Agenda item ID"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/agenda/{itemID} [delete]
func (c *DraftController) RemoveAgendaItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	id, ok := c.itemID(w, r)
	if !ok {
		return
	}
	view, err := c.Service.RemoveAgendaItem(r.Context(), sess, r.PathValue("draftID"), id)
	c.writeView(w, r, http.StatusOK, view, err)
}

// AddSpeaker godoc
// @Summary Append a speaker
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Success 201 {object} controllers.AddItemSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/speakers [post]
func (c *DraftController) AddSpeaker(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	view, id, err := c.Service.AddSpeaker(r.Context(), sess, r.PathValue("draftID"))
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, AddItemResponse{ItemID: id, Draft: view})
}

// UpdateSpeaker godoc
// @Summary Update one field of a speaker
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param itemID path int true "Speaker ID"
// @Param body body UpdateSpeakerRequest true "Field and value"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/speakers/{itemID} [patch]
func (c *DraftController) UpdateSpeaker(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	id, ok := c.itemID(w, r)
	if !ok {
		return
	}
	var req UpdateSpeakerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.UpdateSpeaker(r.Context(), sess, r.PathValue("draftID"), id, draft.SpeakerField(req.Field), req.Value)
	c.writeView(w, r, http.StatusOK, view, err)
}

// RemoveSpeaker godoc
// @Summary Remove a speaker
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param itemID path int true "Speaker ID"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/speakers/{itemID} [delete]
func (c *DraftController) RemoveSpeaker(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	id, ok := c.itemID(w, r)
	if !ok {
		return
	}
	view, err := c.Service.RemoveSpeaker(r.Context(), sess, r.PathValue("draftID"), id)
	c.writeView(w, r, http.StatusOK, view, err)
}

// AddTag godoc
// @Summary Add a tag
// @Description The tag is trimmed; empty or duplicate tags are ignored.
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param body body AddTagRequest true "Tag"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/tags [post]
func (c *DraftController) AddTag(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	var req AddTagRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	view, err := c.Service.AddTag(r.Context(), sess, r.PathValue("draftID"), req.Tag)
	c.writeView(w, r, http.StatusOK, view, err)
}

// RemoveTag godoc
// @Summary Remove a tag
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param tag path string true "Tag (exact match)"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/tags/{tag} [delete]
func (c *DraftController) RemoveTag(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	view, err := c.Service.RemoveTag(r.Context(), sess, r.PathValue("draftID"), r.PathValue("tag"))
	c.writeView(w, r, http.StatusOK, view, err)
}

// GetPayload godoc
// @Summary Preview the creation payload
// @Description Returns the body that submit would send, without sending it.
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Success 200 {object} controllers.PayloadSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /drafts/{draftID}/payload [get]
func (c *DraftController) GetPayload(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	payload, err := c.Service.Payload(r.Context(), sess, r.PathValue("draftID"))
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, payload)
}

// UploadImage godoc
// @Summary Upload the event image
// @Description Uploads the file to the InfiniteBZ API and stores the hosted URL as imageUrl.
// @Tags drafts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param file formData file true "Image file"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /drafts/{draftID}/image [post]
func (c *DraftController) UploadImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "file is required")
		return
	}
	defer file.Close()
	view, err := c.Service.UploadImage(r.Context(), sess, r.PathValue("draftID"), header.Filename, file)
	c.writeView(w, r, http.StatusOK, view, err)
}

// ImportSessionize godoc
// @Summary Import agenda and speakers from Sessionize
// @Description Appends the speakers and non-service sessions of a published Sessionize event.
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Param sessionizeID path string true "Sessionize event ID"
// @Success 200 {object} controllers.DraftSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /drafts/{draftID}/import/sessionize/{sessionizeID} [post]
func (c *DraftController) ImportSessionize(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	view, err := c.Service.ImportSessionize(r.Context(), sess, r.PathValue("draftID"), r.PathValue("sessionizeID"))
	c.writeView(w, r, http.StatusOK, view, err)
}

// Submit godoc
// @Summary Submit the draft
// @Description Sends the assembled payload to the InfiniteBZ API exactly once. On success data carries the event id, share link and next view. A rejected submission returns 422 with the server's message verbatim; the draft is kept for a retry.
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param draftID path string true "Draft ID"
// @Success 201 {object} controllers.SubmitResponse "state succeeded"
// @Success 200 {object} controllers.SubmitResponse "state idle: the response carried no event id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (details lists unmet preconditions)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (in flight or already submitted)"
// @Failure 422 {object} controllers.SubmitResponse "error.code: submit_failed"
// @Router /drafts/{draftID}/submit [post]
func (c *DraftController) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	out, err := c.Service.Submit(r.Context(), sess, r.PathValue("draftID"))
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	switch out.State {
	case submission.Succeeded:
		h.WriteJSONSuccess(w, http.StatusCreated, out)
	case submission.Failed:
		if errors.Is(out.Err, domain.ErrUnauthorized) {
			h.WriteJSONErrorData(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, out.Message, out)
			return
		}
		h.WriteJSONErrorData(w, http.StatusUnprocessableEntity, h.ErrCodeSubmitFailed, out.Message, out)
	default:
		h.WriteJSONSuccess(w, http.StatusOK, out)
	}
}
