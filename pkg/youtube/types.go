package youtube

// Endpoint is one of the upstream operation kinds consumed by the engine
type Endpoint string

const (
	// EndpointSearch is the search.list operation
	EndpointSearch Endpoint = "search"
	// EndpointVideos is the videos.list batch lookup
	EndpointVideos Endpoint = "videos"
	// EndpointChannels is the channels.list batch lookup
	EndpointChannels Endpoint = "channels"
)

// MaxBatchSize is the largest id list accepted by videos.list and channels.list
const MaxBatchSize = 50

// SearchResponse is the search.list response body
type SearchResponse struct {
	NextPageToken string       `json:"nextPageToken,omitempty"`
	Items         []SearchItem `json:"items"`
}

// SearchItem is a single search hit
type SearchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet SearchSnippet `json:"snippet"`
}

// SearchSnippet carries the basic details of a search hit
type SearchSnippet struct {
	PublishedAt  string `json:"publishedAt"`
	ChannelID    string `json:"channelId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

// VideoListResponse is the videos.list response body
type VideoListResponse struct {
	Items []VideoItem `json:"items"`
}

// VideoItem is a single video resource. Parts that were not returned are nil.
type VideoItem struct {
	ID             string               `json:"id"`
	Snippet        *VideoSnippet        `json:"snippet,omitempty"`
	Statistics     *VideoStatistics     `json:"statistics,omitempty"`
	ContentDetails *VideoContentDetails `json:"contentDetails,omitempty"`
}

// VideoSnippet is the snippet part of a video resource
type VideoSnippet struct {
	PublishedAt  string               `json:"publishedAt"`
	ChannelID    string               `json:"channelId"`
	Title        string               `json:"title"`
	ChannelTitle string               `json:"channelTitle"`
	Thumbnails   map[string]Thumbnail `json:"thumbnails"`
}

// Thumbnail is one rendition of a video thumbnail
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// BestThumbnail returns the high rendition, falling back to medium then default
func (s *VideoSnippet) BestThumbnail() string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := s.Thumbnails[size]; ok && t.URL != "" {
			return t.URL
		}
	}

	return ""
}

// VideoStatistics is the statistics part of a video resource.
// Counts are encoded as strings by the provider.
type VideoStatistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount,omitempty"`
	CommentCount string `json:"commentCount,omitempty"`
}

// VideoContentDetails is the contentDetails part of a video resource
type VideoContentDetails struct {
	Duration string `json:"duration"`
}

// ChannelListResponse is the channels.list response body
type ChannelListResponse struct {
	Items []ChannelItem `json:"items"`
}

// ChannelItem is a single channel resource
type ChannelItem struct {
	ID         string             `json:"id"`
	Statistics *ChannelStatistics `json:"statistics,omitempty"`
}

// ChannelStatistics is the statistics part of a channel resource
type ChannelStatistics struct {
	SubscriberCount       string `json:"subscriberCount"`
	HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
	ViewCount             string `json:"viewCount,omitempty"`
	VideoCount            string `json:"videoCount,omitempty"`
}
