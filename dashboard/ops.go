package dashboard

// Every operation here leaves its receiver untouched. When the target view,
// section or card does not exist the receiver itself is returned, so
// identity tells callers whether anything changed.

// CardUpdate holds the fields to merge onto a card. nil fields are left
// alone.
type CardUpdate struct {
	Type        *string
	Entity      *string
	Size        *string
	Config      map[string]interface{}
	Visible     *bool
	CustomLabel *string
	CustomIcon  *string
	CustomColor *string
}

func reindex(items []*CardItem) {
	for i, item := range items {
		item.Order = intPtr(i)
	}
}

func indexOf(items []*CardItem, cardID string) int {
	for i, item := range items {
		if item.ID == cardID {
			return i
		}
	}
	return -1
}

// editItems clones the document, finds the card list with sectionID in
// view viewID of the clone and lets fn change it. fn reports whether it
// did anything.
func (c *Config) editItems(viewID, sectionID string, fn func(items *[]*CardItem) bool) *Config {
	next := c.Clone()
	view := next.View(viewID)
	if view == nil {
		return c
	}
	items := view.items(sectionID)
	if items == nil || !fn(items) {
		return c
	}
	return next
}

// Reorder moves the card at oldIndex to newIndex.
func (c *Config) Reorder(viewID, sectionID string, oldIndex, newIndex int) *Config {
	return c.editItems(viewID, sectionID, func(items *[]*CardItem) bool {
		list := *items
		if oldIndex < 0 || oldIndex >= len(list) || newIndex < 0 || newIndex >= len(list) {
			return false
		}
		moved := list[oldIndex]
		rest := append(append([]*CardItem{}, list[:oldIndex]...), list[oldIndex+1:]...)
		result := append(append(append([]*CardItem{}, rest[:newIndex]...), moved), rest[newIndex:]...)
		reindex(result)
		*items = result
		return true
	})
}

// idSet collects the card ids already used in the document.
func (c *Config) idSet() map[string]bool {
	taken := map[string]bool{}
	for _, id := range c.CardIDs() {
		taken[id] = true
	}
	return taken
}

// claimID returns id, or a new one when id is empty or already taken, and
// marks the result as taken.
func claimID(taken map[string]bool, id string) string {
	if id == "" || taken[id] {
		id = NewCardID()
	}
	taken[id] = true
	return id
}

// AddCard appends a card. A card without an id, or with one already used
// in the document, gets a new one.
func (c *Config) AddCard(viewID, sectionID string, card *CardItem) *Config {
	return c.AddMultipleCards(viewID, sectionID, []*CardItem{card})
}

// AddMultipleCards appends cards in order, numbering them after the
// existing ones.
func (c *Config) AddMultipleCards(viewID, sectionID string, cards []*CardItem) *Config {
	if len(cards) == 0 {
		return c
	}
	taken := c.idSet()
	return c.editItems(viewID, sectionID, func(items *[]*CardItem) bool {
		for _, card := range cards {
			added := card.Clone()
			added.ID = claimID(taken, added.ID)
			if added.Size == "" {
				added.Size = DefaultCardSize
			}
			if added.Config == nil {
				added.Config = map[string]interface{}{}
			}
			added.Order = intPtr(len(*items))
			*items = append(*items, added)
		}
		return true
	})
}

// RemoveCard deletes a card and renumbers the rest.
func (c *Config) RemoveCard(viewID, sectionID, cardID string) *Config {
	return c.editItems(viewID, sectionID, func(items *[]*CardItem) bool {
		i := indexOf(*items, cardID)
		if i < 0 {
			return false
		}
		rest := append(append([]*CardItem{}, (*items)[:i]...), (*items)[i+1:]...)
		reindex(rest)
		*items = rest
		return true
	})
}

// UpdateCardConfig shallow merges update onto a card.
func (c *Config) UpdateCardConfig(viewID, sectionID, cardID string, update CardUpdate) *Config {
	return c.editItems(viewID, sectionID, func(items *[]*CardItem) bool {
		i := indexOf(*items, cardID)
		if i < 0 {
			return false
		}
		card := (*items)[i]
		if update.Type != nil {
			card.Type = *update.Type
		}
		if update.Entity != nil {
			card.Entity = *update.Entity
		}
		if update.Size != nil {
			card.Size = *update.Size
		}
		if update.Config != nil {
			card.Config = (&CardItem{Config: update.Config}).Clone().Config
		}
		if update.Visible != nil {
			card.Visible = boolPtr(*update.Visible)
		}
		if update.CustomLabel != nil {
			card.CustomLabel = cpy(update.CustomLabel)
		}
		if update.CustomIcon != nil {
			card.CustomIcon = cpy(update.CustomIcon)
		}
		if update.CustomColor != nil {
			card.CustomColor = cpy(update.CustomColor)
		}
		return true
	})
}

// ToggleCardVisibility hides a shown card and shows a hidden one.
func (c *Config) ToggleCardVisibility(viewID, sectionID, cardID string) *Config {
	return c.editItems(viewID, sectionID, func(items *[]*CardItem) bool {
		i := indexOf(*items, cardID)
		if i < 0 {
			return false
		}
		card := (*items)[i]
		card.Visible = boolPtr(!card.IsVisible())
		return true
	})
}

// DuplicateCard appends a copy of a card under a new id.
func (c *Config) DuplicateCard(viewID, sectionID, cardID string) *Config {
	return c.editItems(viewID, sectionID, func(items *[]*CardItem) bool {
		i := indexOf(*items, cardID)
		if i < 0 {
			return false
		}
		dup := (*items)[i].Clone()
		dup.ID = NewCardID()
		dup.Order = intPtr(len(*items))
		*items = append(*items, dup)
		return true
	})
}

// AddSection appends a section to a view. Cards whose ids are already in
// use are given new ones.
func (c *Config) AddSection(viewID string, section *Section) *Config {
	next := c.Clone()
	view := next.View(viewID)
	if view == nil || section == nil {
		return c
	}
	taken := c.idSet()
	added := section.Clone()
	added.Items = normalizeItems(added.Items)
	if added.Subsections == nil {
		added.Subsections = []*SubSection{}
	}
	for _, item := range added.Items {
		item.ID = claimID(taken, item.ID)
	}
	for _, sub := range added.Subsections {
		sub.Items = normalizeItems(sub.Items)
		for _, item := range sub.Items {
			item.ID = claimID(taken, item.ID)
		}
		reindex(sub.Items)
	}
	reindex(added.Items)
	view.Sections = append(view.Sections, added)
	return next
}

// RemoveSection deletes a section and its cards.
func (c *Config) RemoveSection(viewID, sectionID string) *Config {
	next := c.Clone()
	view := next.View(viewID)
	if view == nil {
		return c
	}
	for i, s := range view.Sections {
		if s.ID == sectionID {
			view.Sections = append(append([]*Section{}, view.Sections[:i]...), view.Sections[i+1:]...)
			return next
		}
	}
	return c
}

// UpdateTheme sets the document wide styling.
func (c *Config) UpdateTheme(theme, accentColor string, autoTheme bool) *Config {
	if c == nil {
		return c
	}
	next := c.Clone()
	next.Theme = theme
	next.AccentColor = accentColor
	next.AutoTheme = autoTheme
	return next
}
