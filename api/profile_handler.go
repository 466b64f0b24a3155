package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/forms"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type profileHandler struct {
	responder Responder
	logger    zerolog.Logger
	repo      *database.ProfileRepo
	spec      forms.Spec[models.Profile]
	deps      formDeps
}

func newProfileHandler(repo *database.ProfileRepo, deps formDeps) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()
	return profileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		repo:      repo,
		spec:      profileSpec(repo),
		deps:      deps,
	}
}

// saveProfile replaces the profile. Multipart requests may carry avatar and
// resume files; a file wins over a typed URL for the same field.
// @Summary Save profile
// @Tags Admin
// @Accept json,mpfd
// @Produce json
// @Router /api/admin/profile [put]
func (h profileHandler) saveProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft models.Profile
		attachments, cleanup, err := decodeRequest(w, r, &draft, profileFiles)
		defer cleanup()
		if err != nil {
			h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryValidation, err))
			return
		}

		// keep stored file URLs the form did not resend
		if current, err := h.repo.Get(r.Context()); err == nil {
			if draft.AvatarURL == nil {
				draft.AvatarURL = current.AvatarURL
			}
			if draft.ResumeURL == nil {
				draft.ResumeURL = current.ResumeURL
			}
		}

		submitForm(w, r, h.responder, h.spec, forms.Edit, uuid.Nil, draft, attachments, h.deps)
	}
}
