package viewer

// Entry is one navigation item produced by Render.
type Entry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	Href        string `json:"href"`
}

// View is everything a page needs to draw the navigation and configure the
// documentation widget.
type View struct {
	SpecURL     string        `json:"spec_url"`
	ServerURL   string        `json:"server_url"`
	SelectedKey string        `json:"selected_key"`
	Known       bool          `json:"known"`
	Phase       Phase         `json:"phase"`
	Err         string        `json:"error,omitempty"`
	Location    string        `json:"location"`
	QueryParam  string        `json:"query_param"`
	Entries     []Entry       `json:"entries"`
	Widget      WidgetOptions `json:"widget"`
}

// Render is a pure function of s and opts.
func Render(s State, opts Options) View {
	opts = opts.withDefaults()

	entries := make([]Entry, 0, len(s.Groups))
	known := false
	for _, g := range s.Groups {
		title := g.Title
		if title == "" {
			title = g.ID
		}
		active := g.ID == s.SelectedKey
		if active {
			known = true
		}
		entries = append(entries, Entry{
			ID:          g.ID,
			Title:       title,
			Description: g.Description,
			Active:      active,
			Href:        Location(opts.QueryParam, g.ID),
		})
	}

	return View{
		SpecURL:     ExpandSpecURL(opts.SpecURLTemplate, s.ServerURL, s.SelectedKey),
		ServerURL:   s.ServerURL,
		SelectedKey: s.SelectedKey,
		Known:       known,
		Phase:       s.Phase,
		Err:         s.Err,
		Location:    Location(opts.QueryParam, s.SelectedKey),
		QueryParam:  opts.QueryParam,
		Entries:     entries,
		Widget:      opts.Widget,
	}
}

// Selected returns the entry for the selected group, if it is listed.
func (v View) Selected() (Entry, bool) {
	for _, e := range v.Entries {
		if e.Active {
			return e, true
		}
	}
	return Entry{}, false
}
