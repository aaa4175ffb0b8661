package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"photo-share-api/graph"
	"photo-share-api/graph/transport"
	"photo-share-api/internal/application"
	securitymiddleware "photo-share-api/internal/infrastructure/middleware"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

const oauthStateCookie = "oauth_state"

// authorizer builds the provider's browser authorization URL
type authorizer interface {
	AuthorizeURL(state string) string
}

// statsSource reports live pub/sub figures for /health
type statsSource interface {
	Stats() map[string]interface{}
}

type routerConfig struct {
	Schema      *graphql.Schema
	Contexts    *application.ContextBuilder
	OAuth       authorizer
	Gatherer    prometheus.Gatherer
	PubSub      statsSource
	CORSOrigins []string
	SwaggerFile string
	Logger      zerolog.Logger
}

func newRouter(cfg routerConfig) (http.Handler, error) {
	sdlHandler, err := graph.SDLHandler()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(securitymiddleware.AuditLoggingMiddleware(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"pubsub": cfg.PubSub.Stats(),
		})
	})
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/schema.graphql", sdlHandler)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, cfg.SwaggerFile)
	})

	r.Handle("/", playground.Handler("Photo Share", "/graphql"))

	ws := transport.NewHandler(cfg.Schema, cfg.Contexts, cfg.Logger)
	r.With(securitymiddleware.ExecContextMiddleware(cfg.Contexts, cfg.Logger)).
		Post("/graphql", (&relay.Handler{Schema: cfg.Schema}).ServeHTTP)
	r.Get("/graphql", func(w http.ResponseWriter, r *http.Request) {
		if !transport.IsUpgrade(r) {
			http.Error(w, "GET /graphql expects a websocket upgrade; send queries with POST", http.StatusBadRequest)
			return
		}
		ws.ServeHTTP(w, r)
	})

	r.Get("/auth/github", githubRedirectHandler(cfg.OAuth, cfg.Logger))

	return r, nil
}

// githubRedirectHandler sends the browser to the provider's consent page. The
// provider redirects back to the client with a code for the githubAuth mutation.
func githubRedirectHandler(oauth authorizer, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stateBytes := make([]byte, 16)
		if _, err := rand.Read(stateBytes); err != nil {
			logger.Error().Err(err).Msg("Failed to generate state")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		state := hex.EncodeToString(stateBytes)

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, oauth.AuthorizeURL(state), http.StatusFound)
	}
}
