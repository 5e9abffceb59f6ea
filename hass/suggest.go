package hass

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dashhome/dashhome/dashboard"
	"github.com/dashhome/dashhome/entity"
)

// CardTypes maps an entity domain to the card that renders it. Entities of
// other domains are left out of suggestions.
var CardTypes = map[string]string{
	"light":               "light",
	"switch":              "switch",
	"input_boolean":       "switch",
	"sensor":              "sensor",
	"binary_sensor":       "binary_sensor",
	"climate":             "climate",
	"media_player":        "media_player",
	"scene":               "scene",
	"script":              "script",
	"automation":          "automation",
	"cover":               "cover",
	"fan":                 "fan",
	"lock":                "lock",
	"vacuum":              "vacuum",
	"camera":              "camera",
	"weather":             "weather",
	"person":              "person",
	"alarm_control_panel": "alarm",
	"humidifier":          "humidifier",
	"number":              "number",
	"select":              "select",
	"button":              "button",
	"update":              "update",
	"timer":               "timer",
}

var overviewDomains = []string{"light", "climate", "media_player", "sensor"}

const (
	overviewID    = "overview"
	overviewLimit = 8
	areaViewIcon  = "mdi:home-floor-1"
)

// A Caser holds state, so each title gets its own.
func domainTitle(domain string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(domain, "_", " "))
}

func card(state *entity.EntityState) *dashboard.CardItem {
	return &dashboard.CardItem{
		ID:     dashboard.NewCardID(),
		Type:   CardTypes[state.Domain()],
		Entity: state.EntityID,
		Size:   dashboard.DefaultCardSize,
		Config: map[string]interface{}{},
	}
}

// grouped keeps keys in first-seen order.
type grouped struct {
	keys  []string
	items map[string][]*entity.EntityState
}

func (self *grouped) add(key string, state *entity.EntityState) {
	if self.items == nil {
		self.items = map[string][]*entity.EntityState{}
	}
	if _, ok := self.items[key]; !ok {
		self.keys = append(self.keys, key)
	}
	self.items[key] = append(self.items[key], state)
}

func sectionOf(id, domain string, states []*entity.EntityState, limit int) *dashboard.Section {
	section := &dashboard.Section{
		ID:          id,
		Title:       domainTitle(domain),
		Icon:        "mdi:" + domain,
		Items:       []*dashboard.CardItem{},
		Subsections: []*dashboard.SubSection{},
	}
	for _, state := range states {
		if limit > 0 && len(section.Items) == limit {
			break
		}
		section.Items = append(section.Items, card(state))
	}
	return section
}

// Suggest builds a starting dashboard from a discovery: an overview of
// lights, climate, media and sensors, then one view per area holding that
// area's entities grouped by domain. Order follows the order of states.
func Suggest(d *Discovery) *dashboard.Config {
	areaOf := d.AreaMap()
	areaNames := map[string]string{}
	for _, area := range d.Areas {
		areaNames[area.AreaID] = area.Name
	}

	byDomain := &grouped{}
	areas := &grouped{}
	for _, state := range d.States {
		if state == nil {
			continue
		}
		if _, ok := CardTypes[state.Domain()]; !ok {
			continue
		}
		byDomain.add(state.Domain(), state)
		if area, ok := areaOf[state.EntityID]; ok {
			areas.add(area, state)
		}
	}

	views := []*dashboard.ViewConfig{}
	overview := dashboard.NewView(overviewID, "Overview")
	overview.Header.Badges = []string{"lights", "temperature"}
	for _, domain := range overviewDomains {
		if states := byDomain.items[domain]; len(states) > 0 {
			section := sectionOf(overviewID+"_"+domain, domain, states, overviewLimit)
			overview.Sections = append(overview.Sections, section)
		}
	}
	if len(overview.Sections) > 0 {
		views = append(views, overview)
	}

	for _, areaID := range areas.keys {
		name := areaNames[areaID]
		if name == "" {
			name = areaID
		}
		view := dashboard.NewView(areaID, name)
		view.Icon = areaViewIcon
		view.Type = dashboard.ViewObjectPage
		view.Area = areaID
		inArea := &grouped{}
		for _, state := range areas.items[areaID] {
			inArea.add(state.Domain(), state)
		}
		for _, domain := range inArea.keys {
			view.Sections = append(view.Sections, sectionOf(areaID+"_"+domain, domain, inArea.items[domain], 0))
		}
		views = append(views, view)
	}

	doc := dashboard.Default()
	doc.Views = views
	doc.DefaultView = ""
	if len(views) > 0 {
		doc.DefaultView = views[0].ID
	}
	doc.Normalize()
	return doc
}
