package report

import "github.com/osa030/tastebox/internal/domain/track"

// preferredImageWidth is the width picked when the catalog offers it.
const preferredImageWidth = 300

// SelectImage picks the image URL shown for an album or artist: the first
// image exactly 300 pixels wide, otherwise the first image (the API orders
// images largest first). ok is false when there are no images.
func SelectImage(images []track.Image) (url string, ok bool) {
	if len(images) == 0 {
		return "", false
	}
	for _, img := range images {
		if img.Width == preferredImageWidth {
			return img.URL, true
		}
	}
	return images[0].URL, true
}
