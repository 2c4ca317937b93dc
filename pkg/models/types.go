// Package models defines the records that flow through a discovery cycle
package models

import "time"

// VideoType is the duration band a video was classified into
type VideoType string

const (
	// VideoTypeShort covers videos at or below the short-form ceiling
	VideoTypeShort VideoType = "short"
	// VideoTypeLong covers videos at or above the long-form floor
	VideoTypeLong VideoType = "long"
)

// String returns the persisted representation of the type
func (t VideoType) String() string {
	return string(t)
}

// VideoCandidate is a raw search hit, prior to stats enrichment
type VideoCandidate struct {
	ID          string
	ChannelID   string
	Title       string
	PublishedAt time.Time
}

// VideoStats holds per-video statistics from a batched videos lookup
type VideoStats struct {
	ID              string
	ChannelID       string
	ChannelTitle    string
	Title           string
	ThumbnailURL    string
	ViewCount       int64
	DurationSeconds int
	PublishedAt     time.Time
}

// ChannelStats holds per-channel statistics from a batched channels lookup
type ChannelStats struct {
	ID              string
	SubscriberCount int64
}

// OutlierRecord is a qualifying video ready for persistence.
// VideoID is the natural key; re-discovery overwrites the stored row.
type OutlierRecord struct {
	VideoID         string    `json:"video_id"`
	ChannelID       string    `json:"channel_id"`
	Title           string    `json:"title"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	ViewCount       int64     `json:"view_count"`
	SubscriberCount int64     `json:"subscriber_count"`
	ChannelTitle    string    `json:"channel_title"`
	PublishedAt     time.Time `json:"published_at"`
	OutlierScore    float64   `json:"outlier_score"`
	Type            VideoType `json:"type"`
	IsFaceless      bool      `json:"is_faceless"`
	AIAnalysis      string    `json:"ai_analysis"`
}
