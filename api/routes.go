package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes mounts the public site, auth, and guarded admin routes
func (rt router) setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", handlers.siteHandler.healthz(rt.startupTime))

	if rt.uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(rt.uploadsDir))))
	}

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public site
		r.Get("/api/site", handlers.siteHandler.getSite())
		r.Get("/api/profile", handlers.siteHandler.getProfile())
		r.Get("/api/projects", handlers.siteHandler.getProjects())
		r.Get("/api/projects/{projectID}", handlers.siteHandler.getProject())
		r.Get("/api/projects/{projectID}/media", handlers.siteHandler.getProjectMedia())
		r.Get("/api/skills", handlers.siteHandler.getSkills())
		r.Get("/api/experience", handlers.siteHandler.getExperience())
		r.Get("/api/certificates", handlers.siteHandler.getCertificates())
		r.Get("/api/contact-methods", handlers.siteHandler.getContactMethods())
		r.Post("/api/messages", handlers.messageHandler.createMessage())

		// Session
		r.Post("/api/auth/login", handlers.authHandler.login())
		r.Post("/api/auth/logout", handlers.authHandler.logout())
		r.Get("/api/auth/session", handlers.authHandler.session())

		// Admin console entry; the console itself is rendered by the frontend
		r.With(authMiddleware.adminGuard).Get("/admin", handlers.dashboardHandler.getDashboard())
		r.With(authMiddleware.adminGuard).Get("/admin/*", handlers.dashboardHandler.getDashboard())

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(authMiddleware.adminGuard)

			r.Get("/dashboard", handlers.dashboardHandler.getDashboard())
			r.Put("/profile", handlers.profileHandler.saveProfile())

			r.Get("/projects", handlers.projectHandler.listAll())
			r.Post("/projects", handlers.projectHandler.create())
			r.Put("/projects/{id}", handlers.projectHandler.update())
			r.Delete("/projects/{id}", handlers.projectHandler.delete())
			r.Post("/projects/{id}/media", handlers.projectHandler.uploadMedia())
			r.Patch("/media/{id}", handlers.projectHandler.updateMedia())
			r.Delete("/media/{id}", handlers.projectHandler.deleteMedia())

			mountEntity(r, "/skills", handlers.skillHandler)
			mountEntity(r, "/experience", handlers.experienceHandler)
			mountEntity(r, "/certificates", handlers.certificateHandler)
			mountEntity(r, "/contact-methods", handlers.contactMethodHandler)

			r.Get("/messages", handlers.messageHandler.listAll())
			r.Delete("/messages/{id}", handlers.messageHandler.delete())
		})
	})
}

func mountEntity[T any](r chi.Router, path string, h entityHandler[T]) {
	r.Get(path, h.listAll())
	r.Post(path, h.create())
	r.Put(path+"/{id}", h.update())
	r.Delete(path+"/{id}", h.delete())
}
