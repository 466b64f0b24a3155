package api

import (
	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, sessions *auth.Sessions, deps formDeps, secureCookie bool) *routeHandlers {
	return &routeHandlers{
		siteHandler:    newSiteHandler(db),
		authHandler:    newAuthHandler(sessions, secureCookie),
		messageHandler: newMessageHandler(db.MessageRepo(), deps),
		profileHandler: newProfileHandler(db.ProfileRepo(), deps),
		projectHandler: newProjectHandler(db.ProjectRepo(), db.ProjectMediaRepo(), deps),
		skillHandler: newEntityHandler(skillSpec(db.SkillRepo()),
			db.SkillRepo().List, db.SkillRepo().Delete, deps),
		experienceHandler: newEntityHandler(experienceSpec(db.ExperienceRepo()),
			db.ExperienceRepo().List, db.ExperienceRepo().Delete, deps),
		certificateHandler: newEntityHandler(certificateSpec(db.CertificateRepo()),
			db.CertificateRepo().List, db.CertificateRepo().Delete, deps).withFiles(certificateFiles),
		contactMethodHandler: newEntityHandler(contactMethodSpec(db.ContactMethodRepo()),
			db.ContactMethodRepo().List, db.ContactMethodRepo().Delete, deps),
		dashboardHandler: newDashboardHandler(db),
	}
}
