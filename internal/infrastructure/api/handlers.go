package api

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"fitting-room/internal/application/services"
	"fitting-room/internal/application/usecases"
	"fitting-room/internal/domain/entities"
	"fitting-room/model"
)

// multipart framing on top of the photo itself
const uploadOverhead = 1 << 20

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type FittingRoomHandler struct {
	room             *usecases.FittingRoom
	catalog          *services.CatalogService
	parameterService *services.ParameterService
	maxRequestBytes  int64
}

func NewFittingRoomHandler(
	room *usecases.FittingRoom,
	catalog *services.CatalogService,
	parameterService *services.ParameterService,
	maxUploadBytes int64,
) *FittingRoomHandler {
	return &FittingRoomHandler{
		room:             room,
		catalog:          catalog,
		parameterService: parameterService,
		maxRequestBytes:  maxUploadBytes + uploadOverhead,
	}
}

// Routes registers the page, health check and session API on a new router.
func (h *FittingRoomHandler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/garments", h.HandleGarments).Methods(http.MethodGet)
	api.HandleFunc("/photo", h.HandlePhoto).Methods(http.MethodPost)
	api.HandleFunc("/garment", h.HandleGarment).Methods(http.MethodPost)
	api.HandleFunc("/generate", h.HandleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/reset", h.HandleReset).Methods(http.MethodPost)
	api.HandleFunc("/session", h.HandleSession).Methods(http.MethodGet)
	return r
}

func (h *FittingRoomHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Garments []model.Garment
	}{
		Garments: h.garments(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to render index")
	}
}

func (h *FittingRoomHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *FittingRoomHandler) HandleGarments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	WriteJSON(w, http.StatusOK, h.garments())
}

func (h *FittingRoomHandler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestBytes)

	photo, err := h.parameterService.ParsePhoto(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			requestTooLarge(w, r, err)
			return
		}
		badRequest(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().
		Str("photo", photo.Name()).
		Str("mime_type", photo.MimeType()).
		Msg("photo selected")

	snapshot := h.room.SelectPhoto(r.Context(), photo)
	WriteJSON(w, http.StatusOK, h.session(snapshot))
}

func (h *FittingRoomHandler) HandleGarment(w http.ResponseWriter, r *http.Request) {
	garment, err := h.parameterService.ParseGarment(r)
	if err != nil {
		notFound(w, r, err)
		return
	}

	log.Ctx(r.Context()).Info().Str("garment", garment.Name()).Msg("garment selected")

	snapshot := h.room.SelectGarment(r.Context(), garment)
	WriteJSON(w, http.StatusOK, h.session(snapshot))
}

func (h *FittingRoomHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	// A closed tab must not abort the run; only new input cancels it.
	snapshot, err := h.room.Generate(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, usecases.ErrBusy):
		conflict(w, r, "BUSY", err)
		return
	case errors.Is(err, usecases.ErrIncompleteSelection):
		badRequest(w, r, err)
		return
	case errors.Is(err, usecases.ErrSuperseded):
		conflict(w, r, "SUPERSEDED", err)
		return
	case err != nil:
		internalServerError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store, max-age=0")
	WriteJSON(w, http.StatusOK, h.session(snapshot))
}

func (h *FittingRoomHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	snapshot := h.room.Reset(r.Context())
	WriteJSON(w, http.StatusOK, h.session(snapshot))
}

func (h *FittingRoomHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	WriteJSON(w, http.StatusOK, h.session(h.room.Snapshot()))
}

func (h *FittingRoomHandler) garments() []model.Garment {
	garments := h.catalog.List()
	out := make([]model.Garment, 0, len(garments))
	for _, garment := range garments {
		out = append(out, h.garment(garment))
	}
	return out
}

func (h *FittingRoomHandler) garment(garment *entities.Garment) model.Garment {
	return model.Garment{
		ID:         string(garment.ID()),
		Name:       garment.Name(),
		ImageURL:   garment.ImageURL(),
		PreviewURL: h.catalog.PreviewURL(garment),
	}
}

// session maps a snapshot to the page's view. Failures are reported by their
// user message only; wrapped causes stay in the logs.
func (h *FittingRoomHandler) session(snapshot usecases.Snapshot) model.Session {
	session := model.Session{
		State: string(snapshot.Phase),
		Busy:  snapshot.Busy(),
		Photo: snapshot.Photo,
	}
	if snapshot.Garment != nil {
		garment := h.garment(snapshot.Garment)
		session.Garment = &garment
	}
	if snapshot.Output != nil {
		session.RequestID = string(snapshot.Output.RequestID)
		session.Image = snapshot.Output.DataURI()
	}
	if snapshot.Failure != nil {
		session.Error = snapshot.Failure.UserMessage()
		session.ErrorKind = string(snapshot.Failure.Kind)
		session.Retryable = snapshot.Failure.Retryable
	}
	return session
}
