package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/forms"
	"github.com/rpupo63/portfolio-site-backend/models"
)

// messageHandler takes contact form submissions and lets the admin read and
// delete them. Messages trigger no outbound notification.
type messageHandler struct {
	entityHandler[models.Message]
}

func newMessageHandler(repo *database.MessageRepo, deps formDeps) messageHandler {
	return messageHandler{newEntityHandler(messageSpec(repo), repo.List, repo.Delete, deps)}
}

// createMessage stores a contact form submission
// @Summary Send a message
// @Tags Site
// @Accept json
// @Produce json
// @Param message body models.Message true "name, email and content"
// @Success 201 {object} map[string]any "Stored message and notice"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Router /api/messages [post]
func (h messageHandler) createMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft models.Message
		_, cleanup, err := decodeRequest(w, r, &draft, nil)
		defer cleanup()
		if err != nil {
			h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryValidation, err))
			return
		}
		// only the three form fields are accepted from the public
		draft = models.Message{Name: draft.Name, Email: draft.Email, Content: draft.Content}

		deps := formDeps{store: h.store, gate: h.gate, timeout: h.timeout}
		submitForm(w, r, h.responder, h.spec, forms.Create, uuid.Nil, draft, nil, deps)
	}
}
