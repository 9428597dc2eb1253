package youtube

import (
	"net/url"

	"github.com/google/go-querystring/query"
)

// The param structs below exist only to derive cache fingerprints: they
// mirror the wire parameters of each call, and go-querystring flattens
// them into url.Values so equivalent requests hash identically.

type subscriptionsParams struct {
	Part       string `url:"part"`
	Mine       bool   `url:"mine"`
	Order      string `url:"order"`
	MaxResults int64  `url:"maxResults"`
	PageToken  string `url:"pageToken,omitempty"`
}

type channelsParams struct {
	Part string   `url:"part"`
	ID   []string `url:"id,comma"`
}

type playlistItemsParams struct {
	Part       string `url:"part"`
	PlaylistID string `url:"playlistId"`
	MaxResults int64  `url:"maxResults"`
	PageToken  string `url:"pageToken,omitempty"`
}

type videosParams struct {
	Part string   `url:"part"`
	ID   []string `url:"id,comma"`
}

type playlistsParams struct {
	Part       string `url:"part"`
	Mine       bool   `url:"mine"`
	MaxResults int64  `url:"maxResults"`
	PageToken  string `url:"pageToken,omitempty"`
}

type searchParams struct {
	Part       string `url:"part"`
	Type       string `url:"type"`
	Q          string `url:"q"`
	ChannelID  string `url:"channelId,omitempty"`
	Order      string `url:"order,omitempty"`
	RegionCode string `url:"regionCode,omitempty"`
	SafeSearch string `url:"safeSearch,omitempty"`
	MaxResults int64  `url:"maxResults"`
	PageToken  string `url:"pageToken,omitempty"`
}

// paramValues flattens a param struct; a marshal failure yields empty
// values, which still produces a stable (if coarse) fingerprint.
func paramValues(params interface{}) url.Values {
	v, err := query.Values(params)
	if err != nil {
		return url.Values{}
	}
	return v
}
