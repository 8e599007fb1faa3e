// internal/app/cms/imageurl.go
package cms

import (
	"fmt"
	"strings"
)

// ImageURL flattens a CMS image asset reference into a CDN URL.
//
// References look like "image-<assetName>-<width>x<height>-<ext>", e.g.
// "image-a1b2c3-1200x800-jpg". The CDN serves that asset at
// https://cdn.<host>/images/<project>/<dataset>/<assetName>-<width>x<height>.<ext>.
// Malformed references resolve to "" so templates simply render no image.
func (c *Client) ImageURL(ref string) string {
	name, dims, ext, ok := parseImageRef(ref)
	if !ok || c.projectID == "" || c.dataset == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.sanity.io/images/%s/%s/%s-%s.%s",
		c.projectID, c.dataset, name, dims, ext)
}

// parseImageRef splits an asset reference into its name, dimensions, and
// extension parts.
func parseImageRef(ref string) (name, dims, ext string, ok bool) {
	const prefix = "image-"
	if !strings.HasPrefix(ref, prefix) {
		return "", "", "", false
	}
	rest := strings.TrimPrefix(ref, prefix)

	// The asset name may itself contain dashes; dimensions and extension
	// are always the last two segments.
	lastDash := strings.LastIndexByte(rest, '-')
	if lastDash <= 0 {
		return "", "", "", false
	}
	ext = rest[lastDash+1:]
	rest = rest[:lastDash]

	lastDash = strings.LastIndexByte(rest, '-')
	if lastDash <= 0 {
		return "", "", "", false
	}
	dims = rest[lastDash+1:]
	name = rest[:lastDash]

	if ext == "" || name == "" || !validDims(dims) {
		return "", "", "", false
	}
	return name, dims, ext, true
}

// validDims checks a "<width>x<height>" segment.
func validDims(s string) bool {
	x := strings.IndexByte(s, 'x')
	if x <= 0 || x == len(s)-1 {
		return false
	}
	for i, r := range s {
		if i == x {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
