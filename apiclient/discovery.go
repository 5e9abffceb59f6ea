package apiclient

import (
	"github.com/go-resty/resty/v2"

	"github.com/dashhome/dashhome/dashboard"
	"github.com/dashhome/dashhome/hass"
)

type (
	Discovery     = hass.Discovery
	RegistryEntry = hass.RegistryEntry
	Summary       = hass.Summary
)

func (self *Client) Discovery() (*Discovery, error) {
	discovery := &Discovery{}
	if err := self.do(resty.MethodGet, "/api/discovery", nil, discovery); err != nil {
		return nil, err
	}
	return discovery, nil
}

// SuggestDashboard asks the backend to generate a document.
func (self *Client) SuggestDashboard() (*dashboard.Config, error) {
	doc := &dashboard.Config{}
	if err := self.do(resty.MethodPost, "/api/discovery/suggest", nil, doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}
