package media

import (
	"fmt"
	"strings"

	"expo_leads/internal/common"
	"expo_leads/internal/utility"
)

// Rules are the per-file upload limits
type Rules struct {
	MaxSize int64    // bytes, 0 = no limit
	Fields  []string // accepted file fields
}

// DefaultRules returns the card-image rules with the given size ceiling
func DefaultRules(maxSize int64) Rules {
	return Rules{MaxSize: maxSize, Fields: CardFields}
}

// CheckField rejects file fields other than the accepted ones
func (r Rules) CheckField(field string) error {
	if !utility.Contains(r.Fields, field) {
		return common.UploadError(fmt.Sprintf("Unexpected file field: %s", field))
	}
	return nil
}

// CheckFile rejects files that are too large or not images
func (r Rules) CheckFile(field, contentType string, size int64) error {
	if r.MaxSize > 0 && size > r.MaxSize {
		return common.UploadError(fmt.Sprintf("%s exceeds the maximum size of %s", field, utility.FormatBytes(uint64(r.MaxSize))))
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return common.UploadError(fmt.Sprintf("%s must be an image file", field))
	}
	return nil
}
