package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/nerrad567/gray-logic-configstatus/internal/i18n"
)

// requestLocale picks the locale from ?locale=, then Accept-Language.
// language.Und leaves the choice to the service's default locale.
func requestLocale(r *http.Request) (language.Tag, error) {
	if raw := r.URL.Query().Get("locale"); raw != "" {
		return i18n.ParseLocale(raw)
	}
	return i18n.PreferredLocale(r.Header.Get("Accept-Language")), nil
}

// handleGetConfigStatus returns the rendered status of an entity.
func (s *Server) handleGetConfigStatus(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")

	locale, err := requestLocale(r)
	if err != nil {
		s.writeDomainError(w, err, "invalid locale")
		return
	}

	report, err := s.configStatus.Collect(r.Context(), entityID, locale)
	if err != nil {
		s.writeDomainError(w, err, "failed to collect config status")
		return
	}
	if len(report.Faults) > 0 {
		s.logger.Debug("config status collected with faults",
			"entity_id", entityID,
			"faults", len(report.Faults),
		)
	}

	writeJSON(w, http.StatusOK, report.Snapshot())
}

// handlePublishConfigStatus posts the entity's current status as an event.
func (s *Server) handlePublishConfigStatus(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")

	if err := s.configStatus.PublishConfigStatus(r.Context(), entityID); err != nil {
		s.writeDomainError(w, err, "failed to publish config status")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":    "published",
		"entity_id": entityID,
	})
}
