package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/forms"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	entityHandler[models.Project]
	mediaRepo *database.ProjectMediaRepo
	projects  *database.ProjectRepo
	mediaSpec forms.Spec[mediaBatch]
	itemSpec  forms.Spec[models.ProjectMedia]
	deps      formDeps
	logger    zerolog.Logger
}

func newProjectHandler(projects *database.ProjectRepo, media *database.ProjectMediaRepo, deps formDeps) projectHandler {
	return projectHandler{
		entityHandler: newEntityHandler(projectSpec(projects), projects.List, projects.Delete, deps),
		mediaRepo:     media,
		projects:      projects,
		mediaSpec:     mediaSpec(media),
		itemSpec:      mediaItemSpec(media),
		deps:          deps,
		logger:        log.With().Str("handlerName", "projectMediaHandler").Logger(),
	}
}

// uploadMedia appends uploaded files to a project's carousel
// @Summary Upload project media
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 201 {object} map[string]any "Created media and notice"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 502 {object} ErrorResponse "Upload failed"
// @Router /api/admin/projects/{id}/media [post]
func (h projectHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var batch mediaBatch
		attachments, cleanup, err := decodeRequest(w, r, &batch, map[string]storage.Bucket{"media": storage.ProjectMedia})
		defer cleanup()
		if err != nil {
			h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryValidation, err))
			return
		}

		if _, err := h.projects.FindByID(r.Context(), projectID); err != nil {
			h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryRemote, err))
			return
		}
		existing, err := h.mediaRepo.ListForProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryRemote, err))
			return
		}

		batch.ProjectID = projectID
		batch.Files = len(attachments)
		batch.StartAt = nextSortOrder(existing)
		for i := range attachments {
			a := &attachments[i]
			a.Key = storage.MediaKey(projectID, a.Index, a.Filename, a.ContentType)
		}

		h.logger.Info().Str("projectID", projectID.String()).Int("files", len(attachments)).Msg("uploading project media")
		submitForm(w, r, h.responder, h.mediaSpec, forms.Create, uuid.Nil, batch, attachments, h.deps)
	}
}

func nextSortOrder(media []models.ProjectMedia) int {
	next := 0
	for _, m := range media {
		if m.SortOrder >= next {
			next = m.SortOrder + 1
		}
	}
	return next
}

// updateMedia changes one media item's caption or carousel position
// @Summary Update project media
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Media ID" format(uuid)
// @Success 200 {object} map[string]any "Updated media and notice"
// @Failure 404 {object} ErrorResponse "Not Found - Media not found"
// @Router /api/admin/media/{id} [patch]
func (h projectHandler) updateMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch mediaPatch
		_, cleanup, err := decodeRequest(w, r, &patch, nil)
		defer cleanup()
		if err != nil {
			h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryValidation, err))
			return
		}

		current, err := h.mediaRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryRemote, err))
			return
		}
		patch.apply(current)
		submitForm(w, r, h.responder, h.itemSpec, forms.Edit, id, *current, nil, h.deps)
	}
}

// deleteMedia
// @Router /api/admin/media/{id} [delete]
func (h projectHandler) deleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		removeEntity(w, r, h.responder, h.gate, "project media", id, h.mediaRepo.Delete)
	}
}
