package geocode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vbonduro/sitelog/internal/domain"
)

// Links are map and navigation URLs for a site.
type Links struct {
	Embed string `json:"embed"`
	OSM   string `json:"osm"`
	Waze  string `json:"waze"`
}

const zoom = 16

// MapLinks prefers the project's coordinates and falls back to its address.
// ok is false when the project has neither.
func MapLinks(p domain.Project) (Links, bool) {
	if p.HasCoords() {
		ll := fmt.Sprintf("%g,%g", *p.Lat, *p.Lng)
		return Links{
			Embed: fmt.Sprintf("https://www.openstreetmap.org/export/embed.html?marker=%s&zoom=%d", url.QueryEscape(ll), zoom),
			OSM:   fmt.Sprintf("https://www.openstreetmap.org/?mlat=%g&mlon=%g#map=%d/%g/%g", *p.Lat, *p.Lng, zoom, *p.Lat, *p.Lng),
			Waze:  fmt.Sprintf("https://waze.com/ul?ll=%s&navigate=yes", ll),
		}, true
	}

	addr := strings.TrimSpace(p.Address)
	if addr == "" {
		return Links{}, false
	}
	q := url.QueryEscape(addr)
	return Links{
		Embed: "https://www.openstreetmap.org/export/embed.html?search=" + q,
		OSM:   "https://www.openstreetmap.org/search?query=" + q,
		Waze:  "https://waze.com/ul?q=" + q + "&navigate=yes",
	}, true
}
