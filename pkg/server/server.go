package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/docpanel/docpanel/pkg/api"
	"github.com/docpanel/docpanel/pkg/auth"
	"github.com/docpanel/docpanel/pkg/catalog"
	"github.com/docpanel/docpanel/pkg/credentials"
	"github.com/docpanel/docpanel/pkg/docs"
	"github.com/docpanel/docpanel/pkg/storage"
)

// Server wires the cluster, core services, and router together.
type Server struct {
	router  *mux.Router
	cluster *storage.Cluster
	creds   *credentials.Store
	logger  zerolog.Logger
}

// NewServer creates a server over an already-open cluster. secureDB is the
// credential database name.
func NewServer(cluster *storage.Cluster, secureDB string, logger zerolog.Logger) (*Server, error) {
	creds, err := credentials.NewStore(cluster, secureDB, logger)
	if err != nil {
		return nil, err
	}

	authSvc := auth.NewService(creds, logger)
	catalogSvc := catalog.NewService(cluster, secureDB, logger)
	docsSvc := docs.NewService(cluster, logger)

	s := &Server{
		router:  mux.NewRouter(),
		cluster: cluster,
		creds:   creds,
		logger:  logger,
	}

	handler := api.NewHandler(authSvc, catalogSvc, docsSvc, creds, logger)
	handler.RegisterRoutes(s.router)

	s.router.Use(s.requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn().Str("method", r.Method).Str("path", r.URL.Path).Msg("no route found")
		http.NotFound(w, r)
	})

	return s, nil
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func (s *Server) requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// Bootstrap ensures the credential store holds at least the default admin.
func (s *Server) Bootstrap(defaultUsername, defaultPassword string) error {
	return s.creds.Bootstrap(defaultUsername, defaultPassword)
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}
