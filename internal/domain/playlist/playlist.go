// Package playlist provides the Playlist domain entity.
package playlist

// Playlist represents a Spotify playlist as listed for the current user.
type Playlist struct {
	ID      string // Spotify Playlist ID
	Name    string // Playlist name
	OwnerID string // Spotify user ID of the owner
}

// Item is one entry of a playlist.
// TrackID is empty when the entry has no track (removed tracks, episodes).
type Item struct {
	TrackID string
}

// OwnedBy reports whether the playlist belongs to the given user.
func (p *Playlist) OwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// TrackIDs returns the non-empty track IDs of the items, in order.
func TrackIDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.TrackID == "" {
			continue
		}
		ids = append(ids, it.TrackID)
	}
	return ids
}
