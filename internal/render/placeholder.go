package render

import (
	"regexp"
	"strconv"

	"github.com/technoflash/technoflash/internal/model"
)

// Placeholder syntax: [image:N], N a positive base-10 integer. N is 1-based
// and resolves by ordinal position in the fetched ordered list, not by the
// stored display order, which may contain gaps after deletions.
var placeholderPattern = regexp.MustCompile(`\[image:(\d+)\]`)

// Resolve maps a 1-based placeholder index to the image at sequence position
// index-1. Out-of-range or non-positive indices report ok=false; callers
// render a neutral placeholder instead of propagating an error.
func Resolve(images []model.ImageRecord, index int) (model.ImageRecord, bool) {
	if index < 1 || index > len(images) {
		return model.ImageRecord{}, false
	}
	return images[index-1], true
}

// expandPlaceholders substitutes every [image:N] occurrence in authored text
// with an image node, or with neutral placeholder markup when N doesn't
// resolve. It runs before block-type dispatch on text-bearing blocks.
func expandPlaceholders(text string, images []model.ImageRecord) string {
	if !placeholderPattern.MatchString(text) {
		return text
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		digits := placeholderPattern.FindStringSubmatch(match)[1]
		index, err := strconv.Atoi(digits)
		if err != nil {
			// Only reachable for values overflowing int; treat as missing.
			return missingImageNode(digits)
		}

		img, ok := Resolve(images, index)
		if !ok {
			return missingImageNode(digits)
		}
		return imageNode(img.URL, img.Caption, img.AltText)
	})
}
