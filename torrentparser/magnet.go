package torrentparser

import (
	"net/url"
	"strings"
)

// MagnetLink builds a magnet link from the info hash, display name and
// trackers of t. It returns "" when t has no info hash.
func MagnetLink(t TorrentInfo) string {
	if t.InfoHash == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("magnet:?xt=urn:btih:")
	b.WriteString(t.InfoHash)
	if name := t.DisplayName(); name != "" {
		b.WriteString("&dn=")
		b.WriteString(url.QueryEscape(name))
	}
	for _, tr := range t.Trackers {
		b.WriteString("&tr=")
		b.WriteString(url.QueryEscape(tr))
	}
	return b.String()
}
