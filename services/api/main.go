// Package api is a service providing the HTTP REST API the dashboard uses to
// read and persist its configuration.
//
// The endpoints supported are:
//
// GET http://localhost:5050/api/health - status, version and mode
//
// GET/PUT http://localhost:5050/api/config - the application configuration
//
// GET/PUT http://localhost:5050/api/dashboard - the dashboard document
//
// GET http://localhost:5050/api/auth/status - whether the app has been configured
//
// GET http://localhost:5050/api/discovery - states and registries read from Home Assistant
//
// POST http://localhost:5050/api/discovery/suggest - a dashboard generated from discovery
//
// ws://localhost:5050/ws - the live state stream, proxied from Home Assistant
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/config"
	"github.com/dashhome/dashhome/dashboard"
	"github.com/dashhome/dashhome/services"
)

const Version = "0.1.0"

// Service api
type Service struct {
	settings *config.Settings
	manager  *services.ConfigManager
	logger   *zap.Logger
	proxy    *Proxy
}

func New(settings *config.Settings, manager *services.ConfigManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	service := &Service{settings: settings, manager: manager, logger: logger}
	service.proxy = NewProxy(service.dialHass, logger.Named("proxy"))
	return service
}

// ID of the service
func (service *Service) ID() string {
	return "api"
}

func errorResponse(w http.ResponseWriter, status int, err error) {
	jsonStatus(w, status, map[string]interface{}{"detail": err.Error()})
}

func jsonResponse(w http.ResponseWriter, obj interface{}) {
	jsonStatus(w, http.StatusOK, obj)
}

func jsonStatus(w http.ResponseWriter, status int, obj interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(obj)
}

var ok = map[string]interface{}{"status": "ok"}

func (service *Service) apiHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]interface{}{
		"status":  "ok",
		"version": Version,
		"mode":    service.settings.Mode(),
	})
}

func (service *Service) apiGetConfig(w http.ResponseWriter, r *http.Request) {
	app, err := service.manager.LoadAppConfig()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	jsonResponse(w, app)
}

func (service *Service) apiPutConfig(w http.ResponseWriter, r *http.Request) {
	app := config.DefaultAppConfiguration()
	if err := json.NewDecoder(r.Body).Decode(app); err != nil {
		errorResponse(w, http.StatusUnprocessableEntity, errors.Wrap(err, "invalid configuration"))
		return
	}
	if app.HacsCards == nil {
		app.HacsCards = []config.HacsCard{}
	}
	if err := service.manager.SaveAppConfig(app); err != nil {
		errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	service.logger.Info("configuration saved")
	jsonResponse(w, ok)
}

func (service *Service) apiGetDashboard(w http.ResponseWriter, r *http.Request) {
	doc, err := service.manager.LoadDashboard()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	jsonResponse(w, doc)
}

func (service *Service) apiPutDashboard(w http.ResponseWriter, r *http.Request) {
	doc := &dashboard.Config{}
	if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
		errorResponse(w, http.StatusUnprocessableEntity, errors.Wrap(err, "invalid dashboard"))
		return
	}
	doc.Normalize()
	if err := service.manager.SaveDashboard(doc); err != nil {
		errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	service.logger.Info("dashboard saved", zap.Int("views", len(doc.Views)))
	jsonResponse(w, ok)
}

func (service *Service) apiAuthStatus(w http.ResponseWriter, r *http.Request) {
	configured, err := service.manager.IsConfigured()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	app, err := service.manager.LoadAppConfig()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"configured": configured,
		"mode":       app.Mode(),
	})
}

func (service *Service) Router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Path("/health").Methods("GET").HandlerFunc(service.apiHealth)
	api.Path("/config").Methods("GET").HandlerFunc(service.apiGetConfig)
	api.Path("/config").Methods("PUT").HandlerFunc(service.apiPutConfig)
	api.Path("/dashboard").Methods("GET").HandlerFunc(service.apiGetDashboard)
	api.Path("/dashboard").Methods("PUT").HandlerFunc(service.apiPutDashboard)
	api.Path("/auth/status").Methods("GET").HandlerFunc(service.apiAuthStatus)
	api.Path("/discovery").Methods("GET").HandlerFunc(service.apiDiscovery)
	api.Path("/discovery/suggest").Methods("POST").HandlerFunc(service.apiSuggest)
	router.Path("/ws").Handler(service.proxy)
	return router
}

type loggingHandler struct {
	Handler http.Handler
	Logger  *zap.Logger
}

func (handler loggingHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	started := time.Now()
	handler.Handler.ServeHTTP(w, req)
	handler.Logger.Debug("request",
		zap.String("method", req.Method),
		zap.String("uri", req.RequestURI),
		zap.Duration("took", time.Since(started)))
}

// corsHandler allows any origin, used in debug mode only.
type corsHandler struct {
	Handler http.Handler
}

func (handler corsHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if req.Method == "OPTIONS" {
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	handler.Handler.ServeHTTP(w, req)
}

// Handler is the full http handler including middleware.
func (service *Service) Handler() http.Handler {
	var handler http.Handler = service.Router()
	handler = loggingHandler{Handler: handler, Logger: service.logger}
	if service.settings.Debug {
		handler = corsHandler{Handler: handler}
	}
	return handler
}

// Run the service
func (service *Service) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", service.settings.Port)
	server := &http.Server{Addr: addr, Handler: service.Handler()}
	errs := make(chan error, 1)
	go func() {
		service.logger.Info("listening", zap.String("addr", addr))
		errs <- server.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		service.proxy.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
