package model

// PageData is the site-wide part of every rendered page.
type PageData struct {
	SiteTitle  string
	PageTitle  string
	BaseURL    string
	ReaderMode bool
	ReaderURL  string
	ReturnTo   string
	Year       int
}

// Title returns the document title, "<page> • <site>" when a page title is set.
func (d PageData) Title() string {
	if d.PageTitle == "" {
		return d.SiteTitle
	}
	return d.PageTitle + " • " + d.SiteTitle
}
