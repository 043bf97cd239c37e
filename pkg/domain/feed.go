package domain

// FeedSource is the URL of an RSS/Atom endpoint, fixed at configuration time
type FeedSource string

// RawEntry is the first entry of a parsed feed
type RawEntry struct {
	Title string
	Link  string
	Body  string // raw markup, summary preferred over content
}

// CleanedArticle is a feed entry with markup stripped from the body
type CleanedArticle struct {
	Title string
	Link  string
	Body  string
}
