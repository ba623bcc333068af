package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"infinitebz/internal/delivery/http/controllers"
	"infinitebz/internal/delivery/http/middleware"
	"infinitebz/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	sessions domain.SessionService,
	authController *controllers.AuthController,
	draftController *controllers.DraftController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(sessions, logger)

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/logout", auth(authController.Logout))
	mux.HandleFunc("GET /auth/me", auth(authController.Me))

	// Drafts
	mux.HandleFunc("POST /drafts", auth(draftController.CreateDraft))
	mux.HandleFunc("GET /drafts", auth(draftController.ListDrafts))
	mux.HandleFunc("GET /drafts/{draftID}", auth(draftController.GetDraft))
	mux.HandleFunc("DELETE /drafts/{draftID}", auth(draftController.DiscardDraft))
	mux.HandleFunc("PATCH /drafts/{draftID}/fields", auth(draftController.SetField))
	mux.HandleFunc("PUT /drafts/{draftID}/mode", auth(draftController.SetMode))
	mux.HandleFunc("GET /drafts/{draftID}/payload", auth(draftController.GetPayload))
	mux.HandleFunc("POST /drafts/{draftID}/image", auth(draftController.UploadImage))
	mux.HandleFunc("POST /drafts/{draftID}/import/sessionize/{sessionizeID}", auth(draftController.ImportSessionize))
	mux.HandleFunc("POST /drafts/{draftID}/submit", auth(draftController.Submit))

	// Agenda and speakers
	mux.HandleFunc("POST /drafts/{draftID}/agenda", auth(draftController.AddAgendaItem))
	mux.HandleFunc("PATCH /drafts/{draftID}/agenda/{itemID}", auth(draftController.UpdateAgendaItem))
	mux.HandleFunc("DELETE /drafts/{draftID}/agenda/{itemID}", auth(draftController.RemoveAgendaItem))
	mux.HandleFunc("POST /drafts/{draftID}/speakers", auth(draftController.AddSpeaker))
	mux.HandleFunc("PATCH /drafts/{draftID}/speakers/{itemID}", auth(draftController.UpdateSpeaker))
	mux.HandleFunc("DELETE /drafts/{draftID}/speakers/{itemID}", auth(draftController.RemoveSpeaker))

	// Tags
	mux.HandleFunc("POST /drafts/{draftID}/tags", auth(draftController.AddTag))
	mux.HandleFunc("DELETE /drafts/{draftID}/tags/{tag}", auth(draftController.RemoveTag))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
