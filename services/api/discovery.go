package api

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/hass"
)

const discoveryTimeout = 30 * time.Second

// hassURL is the configured Home Assistant url, or the one saved in the
// application configuration when none is configured.
func (service *Service) hassURL() string {
	if service.settings.HassURL != "" {
		return service.settings.HassURL
	}
	app, err := service.manager.LoadAppConfig()
	if err != nil {
		service.logger.Warn("loading configuration", zap.Error(err))
		return ""
	}
	return app.Connection.HassURL
}

func (service *Service) dialHass(ctx context.Context) (*hass.Conn, error) {
	url := service.hassURL()
	if url == "" {
		return nil, errors.New("no home assistant url configured")
	}
	return hass.Dial(ctx, hass.WebsocketURL(url), service.settings.Token(), nil, service.logger.Named("hass"))
}

func (service *Service) discover(ctx context.Context) (*hass.Discovery, error) {
	ctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()
	conn, err := service.dialHass(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return hass.Discover(ctx, conn)
}

func discoveryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hass.ErrNoToken):
		errorResponse(w, http.StatusBadRequest, err)
	case errors.Is(err, hass.ErrAuth):
		errorResponse(w, http.StatusUnauthorized, err)
	default:
		errorResponse(w, http.StatusBadGateway, errors.Wrap(err, "home assistant unavailable"))
	}
}

func (service *Service) apiDiscovery(w http.ResponseWriter, r *http.Request) {
	discovery, err := service.discover(r.Context())
	if err != nil {
		discoveryError(w, err)
		return
	}
	jsonResponse(w, discovery)
}

func (service *Service) apiSuggest(w http.ResponseWriter, r *http.Request) {
	discovery, err := service.discover(r.Context())
	if err != nil {
		discoveryError(w, err)
		return
	}
	doc := hass.Suggest(discovery)
	service.logger.Info("dashboard suggested", zap.Int("views", len(doc.Views)))
	jsonResponse(w, doc)
}
