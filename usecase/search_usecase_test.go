package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedhub/domain/dto"
	"feedhub/domain/model"
)

func TestSearchChannelsEnrichesWithStatistics(t *testing.T) {
	ctx := context.Background()
	f := newFakeYouTube()
	f.channelPages["go talks"] = &dto.ChannelSearchPage{
		Items: []dto.ChannelSearchResult{
			{ChannelID: "c1", Title: "Chan One", Thumbnail: "t1"},
			{ChannelID: "c2", Title: "Chan Two"},
		},
		NextPageToken: "more",
	}
	f.channelDetails["c1"] = model.ChannelDetails{
		ID: "c1", Title: "Chan One", SubscriberCount: 1200, VideoCount: 44,
	}

	u := NewSearchUseCase(f)
	page, err := u.SearchChannels(ctx, &dto.ChannelSearchRequest{Query: "go talks"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "more", page.NextPageToken)
	assert.Equal(t, int64(1200), page.Items[0].SubscriberCount)
	// hit without a detail record keeps the snippet fields, zero counts
	assert.Equal(t, "Chan Two", page.Items[1].Title)
	assert.Zero(t, page.Items[1].SubscriberCount)
}

func TestSearchRequiresQuery(t *testing.T) {
	u := NewSearchUseCase(newFakeYouTube())
	_, err := u.SearchChannels(context.Background(), &dto.ChannelSearchRequest{})
	assert.Error(t, err)
	_, err = u.SearchVideos(context.Background(), nil)
	assert.Error(t, err)
}

func TestFollowSelectedSkipsFailures(t *testing.T) {
	ctx := context.Background()
	f := newFakeYouTube()
	f.subscribeErr["c2"] = errors.New("already subscribed")

	u := NewSearchUseCase(f)
	followed, err := u.FollowSelected(ctx, []string{"c1", "c2", "c3", ""})
	require.NoError(t, err)
	assert.Equal(t, 2, followed)
	assert.Equal(t, []string{"c1", "c3"}, f.subscribed)
}
