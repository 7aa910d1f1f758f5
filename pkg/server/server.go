package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/config"
)

type Server struct {
	Router   *mux.Router
	DB       *gorm.DB
	Store    analyzer.Store
	Analyzer *analyzer.Analyzer
	Config   *config.Config
	srv      *http.Server
}

func NewServer(
	store analyzer.Store,
	a *analyzer.Analyzer,
	db *gorm.DB,
	cfg *config.Config,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:   router,
		DB:       db,
		Store:    store,
		Analyzer: a,
		Config:   cfg,
		srv:      srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
