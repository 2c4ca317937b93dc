package models

import "errors"

var (
	// ErrUnknownVideoType is returned when a persisted type is neither short nor long
	ErrUnknownVideoType = errors.New("unknown video type")
)

// ParseVideoType converts a persisted type string back into a VideoType
func ParseVideoType(s string) (VideoType, error) {
	switch VideoType(s) {
	case VideoTypeShort, VideoTypeLong:
		return VideoType(s), nil
	default:
		return "", ErrUnknownVideoType
	}
}
