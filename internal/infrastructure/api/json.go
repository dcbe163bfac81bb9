package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"fitting-room/model"
)

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	type envelope struct {
		Error model.ErrorResponse `json:"error"`
	}
	WriteJSON(w, status, envelope{Error: model.ErrorResponse{
		Code:    code,
		Message: message,
	}})
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Warn().Err(err).Msg("bad request")
	WriteJSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
}

func notFound(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Warn().Err(err).Msg("not found")
	WriteJSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
}

func conflict(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Ctx(r.Context()).Warn().Err(err).Msg("conflict")
	WriteJSONError(w, http.StatusConflict, code, err.Error())
}

func requestTooLarge(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Warn().Err(err).Msg("request too large")
	WriteJSONError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE", "The photo is too large.")
}

func internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Error().Err(err).Msg("internal server error")
	WriteJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
