package api

import (
	"github.com/rs/zerolog"

	"github.com/docpanel/docpanel/pkg/auth"
	"github.com/docpanel/docpanel/pkg/catalog"
	"github.com/docpanel/docpanel/pkg/credentials"
	"github.com/docpanel/docpanel/pkg/docs"
)

// SessionCookie is the cookie carrying the operator's session id.
const SessionCookie = "docpanel_session"

// Handler provides HTTP handlers for the admin console API
type Handler struct {
	auth    *auth.Service
	catalog *catalog.Service
	docs    *docs.Service
	creds   *credentials.Store
	logger  zerolog.Logger
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(authSvc *auth.Service, catalogSvc *catalog.Service, docsSvc *docs.Service, creds *credentials.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		auth:    authSvc,
		catalog: catalogSvc,
		docs:    docsSvc,
		creds:   creds,
		logger:  logger,
	}
}
