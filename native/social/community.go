package social

import "fmt"

func (e *Engine) communityKey(communityID string) []byte {
	return entityKey(communityPrefix, communityID)
}

func (e *Engine) getCommunity(communityID string) (*Community, bool, error) {
	var community Community
	ok, err := e.getRecord(e.communityKey(communityID), &community)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &community, true, nil
}

func (e *Engine) requireCommunity(communityID string) (*Community, error) {
	community, ok, err := e.getCommunity(communityID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommunityNotFound, communityID)
	}
	return community, nil
}

// CreateCommunity registers a community under the id derived from its name.
// The creator becomes its admin and its first member.
func (e *Engine) CreateCommunity(call Call, name, description, avatar, thumbnail string) (string, error) {
	communityID := slugID(name)
	err := e.apply("create_community", call, func() error {
		if err := validateNameAndDescription(name, description); err != nil {
			return err
		}
		exists, err := e.st.KVHas(e.communityKey(communityID))
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrCommunityExists, communityID)
		}
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		community := &Community{
			ID:          communityID,
			Admin:       call.Caller,
			Name:        name,
			Description: description,
			Avatar:      avatar,
			Thumbnail:   thumbnail,
			CreatedTime: e.now(),
		}
		if err := e.putRecord(e.communityKey(communityID), community); err != nil {
			return err
		}
		if err := e.enumAdd(communityIndexKey, communityID); err != nil {
			return err
		}
		if err := e.indexInsert(relCommunityMembers, communityID, call.Caller); err != nil {
			return err
		}
		if err := e.indexInsert(relJoinedCommunities, call.Caller, communityID); err != nil {
			return err
		}
		e.emit(communityCreated{CommunityID: communityID, Admin: call.Caller})
		return nil
	})
	if err != nil {
		return "", err
	}
	return communityID, nil
}

// JoinCommunity adds the caller to the membership set and mirrors the
// community into the caller's joined set.
func (e *Engine) JoinCommunity(call Call, communityID string) error {
	return e.apply("join_community", call, func() error {
		if _, err := e.requireCommunity(communityID); err != nil {
			return err
		}
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		if err := e.indexInsert(relCommunityMembers, communityID, call.Caller); err != nil {
			return err
		}
		return e.indexInsert(relJoinedCommunities, call.Caller, communityID)
	})
}

// LeaveCommunity removes the caller from the membership set. The community
// admin cannot leave.
func (e *Engine) LeaveCommunity(call Call, communityID string) error {
	return e.apply("leave_community", call, func() error {
		community, err := e.requireCommunity(communityID)
		if err != nil {
			return err
		}
		if community.Admin == call.Caller {
			return fmt.Errorf("%w: the community admin cannot leave", ErrPermission)
		}
		if err := e.indexRemove(relCommunityMembers, communityID, call.Caller); err != nil {
			return err
		}
		return e.indexRemove(relJoinedCommunities, call.Caller, communityID)
	})
}

// IsMember reports whether the actor belongs to the community.
func (e *Engine) IsMember(communityID, actor string) (bool, error) {
	if _, err := e.requireCommunity(communityID); err != nil {
		return false, err
	}
	return e.indexContains(relCommunityMembers, communityID, actor)
}

// newCommunityPostID keeps the timestamp as the first segment so the ranking
// scans parse the same prefix for global and community posts.
func (e *Engine) newCommunityPostID(author string) string {
	return fmt.Sprintf("%d_%d_%s", e.now(), e.height(), author)
}

// CreateCommunityPost stores a post in the community's own sub-store. Only
// members may post; community posts carry a full body rather than a content
// hash.
func (e *Engine) CreateCommunityPost(call Call, communityID, title, body string, payload PostPayload, topicID string) (*Post, error) {
	var created *Post
	err := e.apply("create_community_post", call, func() error {
		if len(title) > MaxTitleLength {
			return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLength)
		}
		if len(body) > MaxDescriptionLength {
			return fmt.Errorf("%w: body exceeds %d characters", ErrValidation, MaxDescriptionLength)
		}
		if err := payload.validate(); err != nil {
			return err
		}
		var topic Topic
		ok, err := e.getRecord(entityKey(topicPrefix, topicID), &topic)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrTopicNotFound, topicID)
		}
		if _, err := e.requireCommunity(communityID); err != nil {
			return err
		}
		member, err := e.indexContains(relCommunityMembers, communityID, call.Caller)
		if err != nil {
			return err
		}
		if !member {
			return fmt.Errorf("%w: only members may post to a community", ErrPermission)
		}
		post := &Post{
			ID:      e.newCommunityPostID(call.Caller),
			Author:  call.Caller,
			Topic:   topic,
			Title:   title,
			Body:    body,
			Payload: payload,
			Time:    e.now(),
		}
		if err := e.putRecord(communityPostKey(communityID, post.ID), post); err != nil {
			return err
		}
		if err := e.indexInsert(relCommunityPosts, communityID, post.ID); err != nil {
			return err
		}
		created = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteCommunityPost removes a community post. The post author, the
// community admin and global admins may delete.
func (e *Engine) DeleteCommunityPost(call Call, communityID, postID string) error {
	return e.apply("delete_community_post", call, func() error {
		community, err := e.requireCommunity(communityID)
		if err != nil {
			return err
		}
		var post Post
		ok, err := e.getRecord(communityPostKey(communityID, postID), &post)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		if call.Caller != post.Author && call.Caller != community.Admin {
			admin, err := e.IsAdmin(call.Caller)
			if err != nil {
				return err
			}
			if !admin {
				return fmt.Errorf("%w: caller may not delete this community post", ErrPermission)
			}
		}
		if err := e.st.KVDelete(communityPostKey(communityID, postID)); err != nil {
			return err
		}
		if err := e.indexRemove(relCommunityPosts, communityID, postID); err != nil {
			return err
		}
		return e.enumAdd(deletedPostsKey, postID)
	})
}

func (e *Engine) setCommunityField(call Call, op, communityID string, mutate func(*Community)) error {
	return e.apply(op, call, func() error {
		community, err := e.requireCommunity(communityID)
		if err != nil {
			return err
		}
		if community.Admin != call.Caller {
			return fmt.Errorf("%w: only the community admin may edit it", ErrPermission)
		}
		mutate(community)
		return e.putRecord(e.communityKey(communityID), community)
	})
}

// SetCommunityAvatar replaces the community avatar; community-admin only.
func (e *Engine) SetCommunityAvatar(call Call, communityID, avatar string) error {
	return e.setCommunityField(call, "set_community_avatar", communityID, func(c *Community) {
		c.Avatar = avatar
	})
}

// SetCommunityThumbnail replaces the community thumbnail; community-admin only.
func (e *Engine) SetCommunityThumbnail(call Call, communityID, thumbnail string) error {
	return e.setCommunityField(call, "set_community_thumbnail", communityID, func(c *Community) {
		c.Thumbnail = thumbnail
	})
}

// SetCommunityDescription replaces the community description; community-admin
// only.
func (e *Engine) SetCommunityDescription(call Call, communityID, description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	return e.setCommunityField(call, "set_community_description", communityID, func(c *Community) {
		c.Description = description
	})
}

// --- queries ---

func (e *Engine) communityStats(community *Community) (*CommunityStats, error) {
	count, err := e.indexLen(relCommunityPosts, community.ID)
	if err != nil {
		return nil, err
	}
	return &CommunityStats{Community: *community, PostsCount: count}, nil
}

// GetCommunity returns a community with its post count.
func (e *Engine) GetCommunity(communityID string) (*CommunityStats, error) {
	community, err := e.requireCommunity(communityID)
	if err != nil {
		return nil, err
	}
	return e.communityStats(community)
}

// GetCommunities pages over all communities in creation order.
func (e *Engine) GetCommunities(fromIndex, limit uint64) ([]*CommunityStats, error) {
	ids, err := e.enumMembers(communityIndexKey)
	if err != nil {
		return nil, err
	}
	page := pageForward(ids, fromIndex, limit)
	stats := make([]*CommunityStats, 0, len(page))
	for _, id := range page {
		community, err := e.requireCommunity(id)
		if err != nil {
			return nil, err
		}
		s, err := e.communityStats(community)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// Members lists the community membership with account stats.
func (e *Engine) Members(communityID string) ([]*AccountStats, error) {
	if _, err := e.requireCommunity(communityID); err != nil {
		return nil, err
	}
	ids, err := e.indexMembers(relCommunityMembers, communityID)
	if err != nil {
		return nil, err
	}
	return e.statsForRange(ids)
}

// JoinedCommunities pages over the communities an actor belongs to.
func (e *Engine) JoinedCommunities(actor string, fromIndex, limit uint64) ([]*CommunityStats, error) {
	if _, err := e.requireAccount(actor); err != nil {
		return nil, err
	}
	ids, err := e.indexMembers(relJoinedCommunities, actor)
	if err != nil {
		return nil, err
	}
	page := pageForward(ids, fromIndex, limit)
	stats := make([]*CommunityStats, 0, len(page))
	for _, id := range page {
		community, err := e.requireCommunity(id)
		if err != nil {
			return nil, err
		}
		s, err := e.communityStats(community)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// GetCommunityPosts pages newest-first over a community's posts.
func (e *Engine) GetCommunityPosts(communityID string, fromIndex, limit uint64) ([]*Post, error) {
	ids, err := e.indexMembers(relCommunityPosts, communityID)
	if err != nil {
		return nil, err
	}
	page := pageReverse(ids, fromIndex, limit)
	posts := make([]*Post, 0, len(page))
	for _, id := range page {
		var post Post
		ok, err := e.getRecord(communityPostKey(communityID, id), &post)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPostNotFound, id)
		}
		posts = append(posts, &post)
	}
	return posts, nil
}

// GetCommunityPost returns one community post by id.
func (e *Engine) GetCommunityPost(communityID, postID string) (*Post, error) {
	if _, err := e.requireCommunity(communityID); err != nil {
		return nil, err
	}
	var post Post
	ok, err := e.getRecord(communityPostKey(communityID, postID), &post)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}
	return &post, nil
}
