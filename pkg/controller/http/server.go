package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/litigio/tramita/pkg/utils/errutil"
	"github.com/litigio/tramita/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type Server struct {
	router       *chi.Mux
	uc           *usecase.UseCases
	registry     *model.TenantRegistry
	noAuthTenant string
}

type Options func(*Server)

// WithNoAuthTenant disables token validation and treats every request
// as an anonymous caller of the given tenant. Local development only.
func WithNoAuthTenant(tenantID string) Options {
	return func(s *Server) {
		s.noAuthTenant = tenantID
	}
}

func New(uc *usecase.UseCases, registry *model.TenantRegistry, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		uc:       uc,
		registry: registry,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/tenants", tenantsHandler(s.registry))

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(uc.Auth, s.noAuthTenant))

		r.Post("/auth/logout", logoutHandler(uc.Auth))
		r.Get("/auth/me", meHandler())

		r.Route("/actions", func(r chi.Router) {
			r.Get("/", s.listActions)
			r.Post("/", s.createAction)

			r.Route("/{actionID}", func(r chi.Router) {
				r.Get("/", s.getAction)
				r.Put("/", s.updateAction)
				r.Post("/approve", s.approveAction)
				r.Post("/return", s.returnAction)
				r.Post("/filed", s.markFiled)
				r.Post("/unfile", s.unfileAction)

				r.Get("/files", s.listFiles)
				r.Post("/files", s.uploadFile)
				r.Post("/files/remove", s.removeFile)
			})
		})
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// tenantsHandler serves the tenant list as JSON
func tenantsHandler(registry *model.TenantRegistry) http.HandlerFunc {
	type tenantResponse struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	type response struct {
		Tenants []tenantResponse `json:"tenants"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tenants := registry.Tenants()
		resp := response{
			Tenants: make([]tenantResponse, len(tenants)),
		}
		for i, tenant := range tenants {
			resp.Tenants[i] = tenantResponse{
				ID:   tenant.ID,
				Name: tenant.Name,
			}
		}

		data, err := json.Marshal(resp)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal tenants response"), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data) //nolint:errcheck // header already committed
	}
}
