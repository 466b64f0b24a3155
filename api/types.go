package api

import "github.com/rpupo63/portfolio-site-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	siteHandler          siteHandler
	authHandler          authHandler
	messageHandler       messageHandler
	profileHandler       profileHandler
	projectHandler       projectHandler
	skillHandler         entityHandler[models.Skill]
	experienceHandler    entityHandler[models.Experience]
	certificateHandler   entityHandler[models.Certificate]
	contactMethodHandler entityHandler[models.ContactMethod]
	dashboardHandler     dashboardHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Status  string            `json:"status" example:"error"`
	Field   string            `json:"field,omitempty" example:"title"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty" example:"title is required"`
	Notice  any               `json:"notice,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
