package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/BeepBeep84/blog/internal/model"
	"github.com/BeepBeep84/blog/internal/site"
)

// Responder writes JSON and HTML responses and logs what goes wrong.
type Responder struct {
	logger zerolog.Logger
	pages  *site.Pages
}

func NewResponder(logger zerolog.Logger, pages *site.Pages) Responder {
	return Responder{logger: logger, pages: pages}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteJSONError classifies err and writes it as {"error", "status"}.
func (r Responder) WriteJSONError(w http.ResponseWriter, err error, fallback string) {
	ae := classify(err, fallback)
	r.log(ae)
	r.WriteJSON(w, ae.StatusCode, map[string]any{
		"error":  ae.Message,
		"status": ae.StatusCode,
	})
}

// WriteHTMLError classifies err and renders the matching message page.
func (r Responder) WriteHTMLError(w http.ResponseWriter, err error, fallback string, data model.PageData) {
	ae := classify(err, fallback)
	r.log(ae)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(ae.StatusCode)
	if err := r.pages.RenderMessage(w, ae.Message, data); err != nil {
		r.logger.Error().Err(err).Msg("error rendering message page")
	}
}

func (r Responder) log(ae *apiErr) {
	if ae.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Err(ae).Int("status", ae.StatusCode).Msg("request failed")
		return
	}
	r.logger.Debug().Err(ae).Int("status", ae.StatusCode).Msg("request rejected")
}
