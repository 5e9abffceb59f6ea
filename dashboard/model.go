// Package dashboard is the dashboard document (views, sections, cards) and
// the structural edits made to it.
//
// A document is treated as an immutable value: every edit deep clones the
// whole document, changes the clone and publishes it, so a previously
// obtained *Config, for instance one held by an undo history, never
// changes.
package dashboard

import (
	"github.com/google/uuid"

	"github.com/dashhome/dashhome/util"
)

const (
	ViewGrid       = "grid"
	ViewObjectPage = "object_page"
)

type Config struct {
	Version        int           `json:"version" yaml:"version"`
	Theme          string        `json:"theme" yaml:"theme"`
	AccentColor    string        `json:"accent_color" yaml:"accent_color"`
	AutoTheme      bool          `json:"auto_theme" yaml:"auto_theme"`
	SidebarVisible bool          `json:"sidebar_visible" yaml:"sidebar_visible"`
	DefaultView    string        `json:"default_view" yaml:"default_view"`
	Views          []*ViewConfig `json:"views" yaml:"views"`
}

type HeaderConfig struct {
	ShowBadges bool     `json:"show_badges" yaml:"show_badges"`
	Badges     []string `json:"badges" yaml:"badges"`
}

type ViewConfig struct {
	ID       string                 `json:"id" yaml:"id"`
	Name     string                 `json:"name" yaml:"name"`
	Icon     string                 `json:"icon" yaml:"icon"`
	Type     string                 `json:"type" yaml:"type"`
	Area     string                 `json:"area" yaml:"area"`
	Header   HeaderConfig           `json:"header" yaml:"header"`
	Layout   map[string]interface{} `json:"layout" yaml:"layout"`
	Sections []*Section             `json:"sections" yaml:"sections"`
}

type Section struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Icon        string        `json:"icon" yaml:"icon"`
	Items       []*CardItem   `json:"items" yaml:"items"`
	Subsections []*SubSection `json:"subsections" yaml:"subsections"`
}

type SubSection struct {
	ID    string      `json:"id" yaml:"id"`
	Title string      `json:"title" yaml:"title"`
	Items []*CardItem `json:"items" yaml:"items"`
}

// CardItem is a single card. Order is derived from the position in its
// section. A nil Visible means shown.
type CardItem struct {
	ID          string                 `json:"id" yaml:"id"`
	Type        string                 `json:"type" yaml:"type"`
	Entity      string                 `json:"entity" yaml:"entity"`
	Size        string                 `json:"size" yaml:"size"`
	Config      map[string]interface{} `json:"config" yaml:"config"`
	Order       *int                   `json:"order,omitempty" yaml:"order,omitempty"`
	Visible     *bool                  `json:"visible,omitempty" yaml:"visible,omitempty"`
	CustomLabel *string                `json:"customLabel,omitempty" yaml:"customLabel,omitempty"`
	CustomIcon  *string                `json:"customIcon,omitempty" yaml:"customIcon,omitempty"`
	CustomColor *string                `json:"customColor,omitempty" yaml:"customColor,omitempty"`
}

// NewCardID generates an opaque, never reused card id.
func NewCardID() string {
	return uuid.NewString()
}

func (c *CardItem) IsVisible() bool {
	return c.Visible == nil || *c.Visible
}

func (c *CardItem) GetOrder() int {
	if c.Order == nil {
		return 0
	}
	return *c.Order
}

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func cpy[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (c *CardItem) Clone() *CardItem {
	if c == nil {
		return nil
	}
	return &CardItem{
		ID:          c.ID,
		Type:        c.Type,
		Entity:      c.Entity,
		Size:        c.Size,
		Config:      util.CopyMap(c.Config),
		Order:       cpy(c.Order),
		Visible:     cpy(c.Visible),
		CustomLabel: cpy(c.CustomLabel),
		CustomIcon:  cpy(c.CustomIcon),
		CustomColor: cpy(c.CustomColor),
	}
}

func cloneItems(items []*CardItem) []*CardItem {
	if items == nil {
		return nil
	}
	ret := make([]*CardItem, len(items))
	for i, item := range items {
		ret[i] = item.Clone()
	}
	return ret
}

func cloneStrings(list []string) []string {
	if list == nil {
		return nil
	}
	return append([]string{}, list...)
}

func (s *SubSection) Clone() *SubSection {
	return &SubSection{ID: s.ID, Title: s.Title, Items: cloneItems(s.Items)}
}

func (s *Section) Clone() *Section {
	ret := &Section{ID: s.ID, Title: s.Title, Icon: s.Icon, Items: cloneItems(s.Items)}
	if s.Subsections != nil {
		ret.Subsections = make([]*SubSection, len(s.Subsections))
		for i, sub := range s.Subsections {
			ret.Subsections[i] = sub.Clone()
		}
	}
	return ret
}

func (v *ViewConfig) Clone() *ViewConfig {
	ret := &ViewConfig{
		ID:   v.ID,
		Name: v.Name,
		Icon: v.Icon,
		Type: v.Type,
		Area: v.Area,
		Header: HeaderConfig{
			ShowBadges: v.Header.ShowBadges,
			Badges:     cloneStrings(v.Header.Badges),
		},
		Layout: util.CopyMap(v.Layout),
	}
	if v.Sections != nil {
		ret.Sections = make([]*Section, len(v.Sections))
		for i, s := range v.Sections {
			ret.Sections[i] = s.Clone()
		}
	}
	return ret
}

// Clone deep copies the whole document.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	ret := *c
	if c.Views != nil {
		ret.Views = make([]*ViewConfig, len(c.Views))
		for i, v := range c.Views {
			ret.Views[i] = v.Clone()
		}
	}
	return &ret
}

// Normalize converts open maps decoded from yaml into json friendly maps,
// fills view defaults and replaces missing lists and maps with empty ones,
// so a document always serialises with [] and {} rather than null.
func (c *Config) Normalize() {
	if c.Views == nil {
		c.Views = []*ViewConfig{}
	}
	for _, v := range c.Views {
		v.Layout = util.ConvertMap(v.Layout)
		if v.Layout == nil {
			v.Layout = map[string]interface{}{}
		}
		if v.Header.Badges == nil {
			v.Header.Badges = []string{}
		}
		if v.Type == "" {
			v.Type = ViewGrid
		}
		if v.Sections == nil {
			v.Sections = []*Section{}
		}
		for _, s := range v.Sections {
			s.Items = normalizeItems(s.Items)
			if s.Subsections == nil {
				s.Subsections = []*SubSection{}
			}
			for _, sub := range s.Subsections {
				sub.Items = normalizeItems(sub.Items)
			}
		}
	}
}

func normalizeItems(items []*CardItem) []*CardItem {
	if items == nil {
		return []*CardItem{}
	}
	for _, item := range items {
		item.Config = util.ConvertMap(item.Config)
		if item.Config == nil {
			item.Config = map[string]interface{}{}
		}
		if item.Size == "" {
			item.Size = DefaultCardSize
		}
	}
	return items
}

// Defaults applied to new documents and views.
const (
	DefaultTheme    = "sap_horizon_dark"
	DefaultAccent   = "#0070f3"
	DefaultViewID   = "overview"
	DefaultViewIcon = "mdi:home"
	DefaultCardSize = "1x1"
)

// NewView returns a view with default header and layout.
func NewView(id, name string) *ViewConfig {
	return &ViewConfig{
		ID:   id,
		Name: name,
		Icon: DefaultViewIcon,
		Type: ViewGrid,
		Header: HeaderConfig{
			ShowBadges: true,
			Badges:     []string{"lights", "temperature", "active_devices"},
		},
		Layout:   map[string]interface{}{"columns": "auto", "min_column_width": 280},
		Sections: []*Section{},
	}
}

// Default is the document used before any has been saved.
func Default() *Config {
	return &Config{
		Version:        1,
		Theme:          DefaultTheme,
		AccentColor:    DefaultAccent,
		SidebarVisible: true,
		DefaultView:    DefaultViewID,
		Views:          []*ViewConfig{NewView(DefaultViewID, "Overview")},
	}
}

// View by id, nil if missing.
func (c *Config) View(id string) *ViewConfig {
	if c == nil {
		return nil
	}
	for _, v := range c.Views {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Section by id within a view, nil if missing.
func (v *ViewConfig) Section(id string) *Section {
	for _, s := range v.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// items returns the card list of a section or subsection with the given id.
func (v *ViewConfig) items(id string) *[]*CardItem {
	for _, s := range v.Sections {
		if s.ID == id {
			return &s.Items
		}
		for _, sub := range s.Subsections {
			if sub.ID == id {
				return &sub.Items
			}
		}
	}
	return nil
}

// Card finds a card anywhere in the document.
func (c *Config) Card(id string) *CardItem {
	var found *CardItem
	c.walk(func(item *CardItem) {
		if item.ID == id {
			found = item
		}
	})
	return found
}

// CardIDs lists every card id in document order.
func (c *Config) CardIDs() []string {
	var ids []string
	c.walk(func(item *CardItem) { ids = append(ids, item.ID) })
	return ids
}

func (c *Config) walk(fn func(*CardItem)) {
	if c == nil {
		return
	}
	for _, v := range c.Views {
		for _, s := range v.Sections {
			for _, item := range s.Items {
				fn(item)
			}
			for _, sub := range s.Subsections {
				for _, item := range sub.Items {
					fn(item)
				}
			}
		}
	}
}
