package classifier

import (
	"strings"

	"github.com/ethpandaops/nichefy/pkg/models"
)

// Band is the duration bucket a video falls into
type Band string

const (
	// BandShort covers videos at or below the short ceiling
	BandShort Band = "short"
	// BandLong covers videos at or above the long floor
	BandLong Band = "long"
	// BandNone covers the gap between the two bands and is never classified
	BandNone Band = "none"
)

// Reason explains why a video did or did not qualify
type Reason string

// Decision reasons
const (
	ReasonQualified     Reason = "qualified"
	ReasonNoSubscribers Reason = "no_subscribers"
	ReasonUnclassified  Reason = "unclassified_duration"
	ReasonSubscribers   Reason = "subscriber_threshold"
	ReasonViews         Reason = "view_threshold"
	ReasonRatio         Reason = "ratio_threshold"
)

// Decision is the full outcome of classifying one video
type Decision struct {
	Band       Band
	Outlier    bool
	Reason     Reason
	Ratio      float64
	IsFaceless bool
}

// Classifier applies the outlier rules. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	cfg Config
}

// New creates a classifier from a validated config
func New(cfg Config) *Classifier {
	keywords := make([]string, 0, len(cfg.FacelessKeywords))
	for _, kw := range cfg.FacelessKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	cfg.FacelessKeywords = keywords

	return &Classifier{cfg: cfg}
}

// Classify evaluates the video against its channel's subscriber count
func (c *Classifier) Classify(video models.VideoStats, channel models.ChannelStats) Decision {
	d := Decision{
		Band:       c.band(video.DurationSeconds),
		IsFaceless: c.IsFaceless(video.Title),
	}

	subs := channel.SubscriberCount
	if subs <= 0 {
		d.Reason = ReasonNoSubscribers
		return d
	}

	views := video.ViewCount
	d.Ratio = float64(views) / float64(subs)

	switch d.Band {
	case BandShort:
		r := c.cfg.Short
		switch {
		case subs < r.MinSubscribers:
			d.Reason = ReasonSubscribers
		case views < r.MinViews:
			d.Reason = ReasonViews
		case d.Ratio < r.MinRatio:
			d.Reason = ReasonRatio
		default:
			d.Outlier = true
			d.Reason = ReasonQualified
		}
	case BandLong:
		r := c.cfg.Long
		switch {
		case subs >= r.MaxSubscribers:
			d.Reason = ReasonSubscribers
		case views < r.MinViews:
			d.Reason = ReasonViews
		case d.Ratio < r.MinRatio || d.Ratio > r.MaxRatio:
			d.Reason = ReasonRatio
		default:
			d.Outlier = true
			d.Reason = ReasonQualified
		}
	default:
		d.Reason = ReasonUnclassified
	}

	return d
}

// Evaluate returns the outlier record for a qualifying video, or false
func (c *Classifier) Evaluate(video models.VideoStats, channel models.ChannelStats) (models.OutlierRecord, bool) {
	d := c.Classify(video, channel)
	if !d.Outlier {
		return models.OutlierRecord{}, false
	}

	videoType := models.VideoTypeLong
	if d.Band == BandShort {
		videoType = models.VideoTypeShort
	}

	return models.OutlierRecord{
		VideoID:         video.ID,
		ChannelID:       video.ChannelID,
		Title:           video.Title,
		ThumbnailURL:    video.ThumbnailURL,
		ViewCount:       video.ViewCount,
		SubscriberCount: channel.SubscriberCount,
		ChannelTitle:    video.ChannelTitle,
		PublishedAt:     video.PublishedAt,
		OutlierScore:    d.Ratio,
		Type:            videoType,
		IsFaceless:      d.IsFaceless,
	}, true
}

// IsFaceless reports whether the title contains any faceless keyword
func (c *Classifier) IsFaceless(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range c.cfg.FacelessKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

func (c *Classifier) band(seconds int) Band {
	switch {
	case seconds <= c.cfg.Short.MaxDurationSeconds:
		return BandShort
	case seconds >= c.cfg.Long.MinDurationSeconds:
		return BandLong
	default:
		return BandNone
	}
}
