package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/site"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// siteHandler serves the public, read-only sections.
type siteHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newSiteHandler(db database.Database) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()
	return siteHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

func (h siteHandler) order(w http.ResponseWriter, r *http.Request) (database.OrderKey, bool) {
	order, err := database.ParseOrderKey(r.URL.Query().Get("order"), "")
	if err != nil {
		h.responder.WriteError(w, err)
		return "", false
	}
	return order, true
}

// getSite returns every public section in one document
// @Summary Get site
// @Description Profile, projects with media, grouped skills and experience, certificates and contact methods
// @Tags Site
// @Produce json
// @Success 200 {object} site.Document
// @Failure 500 {object} ErrorResponse "A section could not be read"
// @Router /api/site [get]
func (h siteHandler) getSite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := site.Load(r.Context(), h.db)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, doc)
	}
}

// getProfile
// @Summary Get profile
// @Tags Site
// @Produce json
// @Success 200 {object} site.Profile
// @Failure 404 {object} ErrorResponse "No profile saved yet"
// @Router /api/profile [get]
func (h siteHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.db.ProfileRepo().Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site.BuildProfile(p))
	}
}

// getProjects lists projects, featured first
// @Summary Get all projects
// @Tags Site
// @Produce json
// @Param order query string false "created"
// @Success 200 {array} site.Project
// @Router /api/projects [get]
func (h siteHandler) getProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := h.order(w, r)
		if !ok {
			return
		}
		rows, err := h.db.ProjectRepo().List(r.Context(), order)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site.BuildProjects(rows))
	}
}

// getProject
// @Summary Get project
// @Tags Site
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} site.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID} [get]
func (h siteHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project, err := h.db.ProjectRepo().FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site.BuildProject(*project))
	}
}

// getProjectMedia returns one project's carousel in display order
// @Router /api/projects/{projectID}/media [get]
func (h siteHandler) getProjectMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if _, err := h.db.ProjectRepo().FindByID(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		media, err := h.db.ProjectMediaRepo().ListForProject(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site.BuildMedia(media))
	}
}

// @Router /api/skills [get]
func (h siteHandler) getSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := h.order(w, r)
		if !ok {
			return
		}
		rows, err := h.db.SkillRepo().List(r.Context(), order)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site.GroupSkills(rows))
	}
}

// @Router /api/experience [get]
func (h siteHandler) getExperience() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := h.order(w, r)
		if !ok {
			return
		}
		rows, err := h.db.ExperienceRepo().List(r.Context(), order)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site.GroupExperience(rows))
	}
}

// @Router /api/certificates [get]
func (h siteHandler) getCertificates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := h.order(w, r)
		if !ok {
			return
		}
		rows, err := h.db.CertificateRepo().List(r.Context(), order)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site.BuildCertificates(rows))
	}
}

// @Router /api/contact-methods [get]
func (h siteHandler) getContactMethods() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, ok := h.order(w, r)
		if !ok {
			return
		}
		rows, err := h.db.ContactMethodRepo().List(r.Context(), order)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site.BuildContactMethods(rows))
	}
}

func (h siteHandler) healthz(startupTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.Ping(r.Context()); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("ping", "database", err))
			return
		}
		h.responder.WriteJSON(w, map[string]string{
			"status": "ok",
			"uptime": time.Since(startupTime).Round(time.Second).String(),
		})
	}
}
