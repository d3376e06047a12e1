package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/chatwire/chatwire/internal/chat"
	"github.com/chatwire/chatwire/internal/config"
	"github.com/chatwire/chatwire/internal/database"
	"github.com/gorilla/handlers"
)

// ChatApp is the HTTP surface: the auth perimeter, the message history
// endpoints, and the websocket upgrade path.
type ChatApp struct {
	log            *log.Logger
	db             database.ChatRepository
	mux            *http.Server
	cs             *chat.ChatServer
	signingKey     []byte
	allowedOrigins []string
}

func NewChatApp(mux *http.ServeMux, logger *log.Logger, cs *chat.ChatServer, db database.ChatRepository, cfg *config.Config) *ChatApp {
	s := &ChatApp{
		log:            logger,
		db:             db,
		cs:             cs,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("POST /api/auth/register", s.createAccount)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("GET /api/auth/session", s.authMiddleware(s.session))
	mux.Handle("GET /api/auth/logout", s.authMiddleware(s.logout))
	mux.Handle("GET /api/messages/group", s.authMiddleware(s.getGroupMessages))
	mux.Handle("GET /api/messages/private", s.authMiddleware(s.getPrivateMessages))
	mux.Handle("GET /ws", s.authMiddleware(s.serveWs))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *ChatApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *ChatApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
