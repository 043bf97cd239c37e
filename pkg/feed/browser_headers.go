package feed

import (
	"math/rand"
	"net/http"
)

// acceptLanguages contains Accept-Language values a Brazilian reader's browser would send
var acceptLanguages = []string{
	"pt-BR,pt;q=0.9",
	"pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
	"pt-BR,pt;q=0.9,en;q=0.8",
	"pt-PT,pt;q=0.9,en;q=0.8",
	"en-US,en;q=0.9,pt-BR;q=0.8",
}

// addBrowserHeaders adds browser-like headers for feed fetching,
// publishers behind bot protection reject requests without them
func addBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,text/html;q=0.7,*/*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
	req.Header.Set("Connection", "keep-alive")
}
