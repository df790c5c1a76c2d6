package social

import "agorachain/core/types"

// Event types emitted by the engine. Emission happens inside the call overlay;
// the node fans events out only after the call commits, so a rejected call
// leaks no events.
const (
	EventTypeAccountFollowed   = "social.account.followed"
	EventTypeAccountUnfollowed = "social.account.unfollowed"
	EventTypePostCreated       = "social.post.created"
	EventTypePostDeleted       = "social.post.deleted"
	EventTypeCommunityCreated  = "social.community.created"
	EventTypeMessageSent       = "social.message.sent"
	EventTypeChestPlaced       = "social.chest.placed"
	EventTypeMintRequested     = "social.mint.requested"
	EventTypeChestMinted       = "social.chest.minted"
)

type accountFollowed struct {
	Follower string
	Followed string
}

func (accountFollowed) EventType() string { return EventTypeAccountFollowed }

func (evt accountFollowed) Event() *types.Event {
	return &types.Event{
		Type: EventTypeAccountFollowed,
		Attributes: map[string]string{
			"follower": evt.Follower,
			"followed": evt.Followed,
		},
	}
}

type accountUnfollowed struct {
	Follower string
	Followed string
}

func (accountUnfollowed) EventType() string { return EventTypeAccountUnfollowed }

func (evt accountUnfollowed) Event() *types.Event {
	return &types.Event{
		Type: EventTypeAccountUnfollowed,
		Attributes: map[string]string{
			"follower": evt.Follower,
			"followed": evt.Followed,
		},
	}
}

type postCreated struct {
	PostID string
	Author string
	Topic  string
}

func (postCreated) EventType() string { return EventTypePostCreated }

func (evt postCreated) Event() *types.Event {
	return &types.Event{
		Type: EventTypePostCreated,
		Attributes: map[string]string{
			"postId": evt.PostID,
			"author": evt.Author,
			"topic":  evt.Topic,
		},
	}
}

type postDeleted struct {
	PostID string
	Author string
}

func (postDeleted) EventType() string { return EventTypePostDeleted }

func (evt postDeleted) Event() *types.Event {
	return &types.Event{
		Type: EventTypePostDeleted,
		Attributes: map[string]string{
			"postId": evt.PostID,
			"author": evt.Author,
		},
	}
}

type communityCreated struct {
	CommunityID string
	Admin       string
}

func (communityCreated) EventType() string { return EventTypeCommunityCreated }

func (evt communityCreated) Event() *types.Event {
	return &types.Event{
		Type: EventTypeCommunityCreated,
		Attributes: map[string]string{
			"communityId": evt.CommunityID,
			"admin":       evt.Admin,
		},
	}
}

type messageSent struct {
	ThreadID string
	Sender   string
	Receiver string
}

func (messageSent) EventType() string { return EventTypeMessageSent }

func (evt messageSent) Event() *types.Event {
	return &types.Event{
		Type: EventTypeMessageSent,
		Attributes: map[string]string{
			"threadId": evt.ThreadID,
			"sender":   evt.Sender,
			"receiver": evt.Receiver,
		},
	}
}

type chestPlaced struct {
	ChestID string
	Sender  string
	Place   string
}

func (chestPlaced) EventType() string { return EventTypeChestPlaced }

func (evt chestPlaced) Event() *types.Event {
	return &types.Event{
		Type: EventTypeChestPlaced,
		Attributes: map[string]string{
			"chestId": evt.ChestID,
			"sender":  evt.Sender,
			"place":   evt.Place,
		},
	}
}

type mintRequested struct {
	RequestID string
	ChestID   string
	TokenID   string
	Receiver  string
}

func (mintRequested) EventType() string { return EventTypeMintRequested }

func (evt mintRequested) Event() *types.Event {
	return &types.Event{
		Type: EventTypeMintRequested,
		Attributes: map[string]string{
			"requestId": evt.RequestID,
			"chestId":   evt.ChestID,
			"tokenId":   evt.TokenID,
			"receiver":  evt.Receiver,
		},
	}
}

type chestMinted struct {
	RequestID string
	ChestID   string
	TokenID   string
	Receiver  string
}

func (chestMinted) EventType() string { return EventTypeChestMinted }

func (evt chestMinted) Event() *types.Event {
	return &types.Event{
		Type: EventTypeChestMinted,
		Attributes: map[string]string{
			"requestId": evt.RequestID,
			"chestId":   evt.ChestID,
			"tokenId":   evt.TokenID,
			"receiver":  evt.Receiver,
		},
	}
}
