package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newDashboardHandler(db database.Database) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()
	return dashboardHandler{responder: NewResponder(logger), logger: logger, db: db}
}

// getDashboard returns content counts and the signed-in session
// @Router /api/admin/dashboard [get]
func (h dashboardHandler) getDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.db.Counts(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		session, _ := ctxGetSession(r.Context())
		h.responder.WriteJSON(w, map[string]any{
			"counts":  counts,
			"session": session,
		})
	}
}
