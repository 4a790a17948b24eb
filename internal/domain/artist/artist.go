// Package artist provides the Artist domain entity.
package artist

import "github.com/osa030/tastebox/internal/domain/track"

// Artist represents a Spotify artist.
type Artist struct {
	ID     string        // Spotify Artist ID
	Name   string        // Display name
	Images []track.Image // Largest first, as delivered by the API
	Genres []string      // Upstream genre tags, may be empty
}
