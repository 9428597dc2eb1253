package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedhub/domain/dto"
	"feedhub/domain/model"
)

func TestAllSubscriptionChannelIDs(t *testing.T) {
	ctx := context.Background()
	f := newFakeYouTube()
	f.subsPages[""] = &dto.SubscriptionPage{
		Items: []model.Subscription{
			{ID: "s1", ChannelID: "c1"},
			{ID: "s2", ChannelID: "c2"},
		},
		NextPageToken: "p2",
	}
	f.subsPages["p2"] = &dto.SubscriptionPage{
		Items: []model.Subscription{
			{ID: "s3", ChannelID: "c2"}, // duplicate across pages
			{ID: "s4", ChannelID: "c3"},
			{ID: "s5"}, // no channel id, dropped
		},
	}

	u := NewSubscriptionUseCase(f)
	ids, err := u.AllSubscriptionChannelIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids)
	assert.Equal(t, 2, f.callCount("subscriptions"))
}

func TestSubscriptionsPagePassthrough(t *testing.T) {
	ctx := context.Background()
	f := newFakeYouTube()
	f.subsPages["tok"] = &dto.SubscriptionPage{
		Items:         []model.Subscription{{ID: "s9", ChannelID: "c9", Title: "Nine"}},
		NextPageToken: "tok2",
	}

	u := NewSubscriptionUseCase(f)
	page, err := u.Subscriptions(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "tok2", page.NextPageToken)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Nine", page.Items[0].Title)
}

func TestSubscribeValidation(t *testing.T) {
	u := NewSubscriptionUseCase(newFakeYouTube())
	assert.Error(t, u.Subscribe(context.Background(), ""))
	assert.Error(t, u.Unsubscribe(context.Background(), ""))
}
