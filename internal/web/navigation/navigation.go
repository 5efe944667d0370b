// Package navigation holds the breadcrumb and tab state rendered by the base layout.
package navigation

// Link is a breadcrumb entry or a tab in the page header.
type Link struct {
	Title  string
	URL    string
	Active bool
}

// Context is the navigation state of one rendered page.
type Context struct {
	PageTitle     string
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []Link
	Tabs          []Link
}

// NewContext creates a context for the page identified by section and page.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]Link, 0),
		Tabs:          make([]Link, 0),
	}
}

// AddBreadcrumb appends a breadcrumb link.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, Link{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// AddTab appends a tab; it is marked active when page is the current page.
func (c *Context) AddTab(title, url, page string) *Context {
	c.Tabs = append(c.Tabs, Link{
		Title:  title,
		URL:    url,
		Active: c.ActivePage == page,
	})

	return c
}

// IsActive reports whether section and page match the current page.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}
