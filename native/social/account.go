package social

import "fmt"

// ProfileUpdate carries the optional profile fields of UpdateProfile; nil
// fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	Avatar      *string
	Thumbnail   *string
}

// UpdateProfile edits the caller's own profile fields.
func (e *Engine) UpdateProfile(call Call, update ProfileUpdate) error {
	return e.apply("update_profile", call, func() error {
		account, err := e.getOrCreateAccount(call.Caller)
		if err != nil {
			return err
		}
		if update.DisplayName != nil {
			account.DisplayName = *update.DisplayName
		}
		if update.Bio != nil {
			account.Bio = *update.Bio
		}
		if update.Avatar != nil {
			account.Avatar = *update.Avatar
		}
		if update.Thumbnail != nil {
			account.Thumbnail = *update.Thumbnail
		}
		return e.putAccount(call.Caller, account)
	})
}

// SetDisplayName replaces the caller's display name.
func (e *Engine) SetDisplayName(call Call, displayName string) error {
	return e.apply("set_display_name", call, func() error {
		account, err := e.getOrCreateAccount(call.Caller)
		if err != nil {
			return err
		}
		account.DisplayName = displayName
		return e.putAccount(call.Caller, account)
	})
}

// SetAvatar replaces the caller's avatar.
func (e *Engine) SetAvatar(call Call, avatar string) error {
	return e.apply("set_avatar", call, func() error {
		account, err := e.getOrCreateAccount(call.Caller)
		if err != nil {
			return err
		}
		account.Avatar = avatar
		return e.putAccount(call.Caller, account)
	})
}

// SetThumbnail replaces the caller's thumbnail.
func (e *Engine) SetThumbnail(call Call, thumbnail string) error {
	return e.apply("set_thumbnail", call, func() error {
		account, err := e.getOrCreateAccount(call.Caller)
		if err != nil {
			return err
		}
		account.Thumbnail = thumbnail
		return e.putAccount(call.Caller, account)
	})
}

// SetBio replaces the caller's bio.
func (e *Engine) SetBio(call Call, bio string) error {
	return e.apply("set_bio", call, func() error {
		account, err := e.getOrCreateAccount(call.Caller)
		if err != nil {
			return err
		}
		account.Bio = bio
		return e.putAccount(call.Caller, account)
	})
}

// SetMessagePubKey replaces the public key other actors encrypt private
// messages against.
func (e *Engine) SetMessagePubKey(call Call, pubKey string) error {
	return e.apply("set_message_pub_key", call, func() error {
		account, err := e.getOrCreateAccount(call.Caller)
		if err != nil {
			return err
		}
		account.MessagePubKey = pubKey
		return e.putAccount(call.Caller, account)
	})
}

// Follow adds the edge caller→target and its mirror target→caller. Either
// side failing aborts the whole call.
func (e *Engine) Follow(call Call, target string) error {
	return e.apply("follow", call, func() error {
		if !validActor(target) {
			return fmt.Errorf("%w: target account required", ErrValidation)
		}
		if err := requireDistinct(call.Caller, target); err != nil {
			return err
		}
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		if _, err := e.getOrCreateAccount(target); err != nil {
			return err
		}
		if err := e.indexInsert(relFollowing, call.Caller, target); err != nil {
			return err
		}
		if err := e.indexInsert(relFollowers, target, call.Caller); err != nil {
			return err
		}
		e.emit(accountFollowed{Follower: call.Caller, Followed: target})
		return nil
	})
}

// Unfollow removes both sides of the follow edge; it fails when the edge is
// absent.
func (e *Engine) Unfollow(call Call, target string) error {
	return e.apply("unfollow", call, func() error {
		if err := requireDistinct(call.Caller, target); err != nil {
			return err
		}
		if _, err := e.requireAccount(call.Caller); err != nil {
			return err
		}
		if _, err := e.requireAccount(target); err != nil {
			return err
		}
		if err := e.indexRemove(relFollowing, call.Caller, target); err != nil {
			return err
		}
		if err := e.indexRemove(relFollowers, target, call.Caller); err != nil {
			return err
		}
		e.emit(accountUnfollowed{Follower: call.Caller, Followed: target})
		return nil
	})
}

// AddBookmark appends a post id to the caller's ordered bookmark list.
func (e *Engine) AddBookmark(call Call, postID string) error {
	return e.apply("add_bookmark", call, func() error {
		if _, ok, err := e.getPost(postID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		account, err := e.getOrCreateAccount(call.Caller)
		if err != nil {
			return err
		}
		account.Bookmarks = append(account.Bookmarks, postID)
		return e.putAccount(call.Caller, account)
	})
}

// RemoveBookmark removes a post id from the caller's bookmark list.
func (e *Engine) RemoveBookmark(call Call, postID string) error {
	return e.apply("remove_bookmark", call, func() error {
		account, err := e.requireAccount(call.Caller)
		if err != nil {
			return err
		}
		for i, existing := range account.Bookmarks {
			if existing == postID {
				account.Bookmarks = append(account.Bookmarks[:i], account.Bookmarks[i+1:]...)
				return e.putAccount(call.Caller, account)
			}
		}
		return fmt.Errorf("%w: bookmark %s", ErrRelationNotFound, postID)
	})
}

// --- queries ---

func (e *Engine) accountStats(actor string, account *Account) (*AccountStats, error) {
	followers, err := e.indexLen(relFollowers, actor)
	if err != nil {
		return nil, err
	}
	following, err := e.indexLen(relFollowing, actor)
	if err != nil {
		return nil, err
	}
	conversations, err := e.indexMembers(relConversations, actor)
	if err != nil {
		return nil, err
	}
	return &AccountStats{
		AccountID:            actor,
		NumFollowers:         followers,
		NumFollowing:         following,
		RelatedConversations: conversations,
		MessagePubKey:        account.MessagePubKey,
		Avatar:               account.Avatar,
		Thumbnail:            account.Thumbnail,
		Bio:                  account.Bio,
		DisplayName:          account.DisplayName,
	}, nil
}

// GetAccount returns the stats projection of an account, or nil when the
// actor has never been referenced.
func (e *Engine) GetAccount(actor string) (*AccountStats, error) {
	account, ok, err := e.getAccount(actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return e.accountStats(actor, account)
}

// GetAccounts pages over all accounts in registration order.
func (e *Engine) GetAccounts(fromIndex, limit uint64) ([]*AccountStats, error) {
	ids, err := e.enumMembers(accountIndexKey)
	if err != nil {
		return nil, err
	}
	return e.statsForRange(pageForward(ids, fromIndex, limit))
}

// GetAccountsByIDs resolves a batch of actor ids; unknown ids fail the whole
// lookup.
func (e *Engine) GetAccountsByIDs(actors []string) ([]*AccountStats, error) {
	stats := make([]*AccountStats, 0, len(actors))
	for _, actor := range actors {
		account, err := e.requireAccount(actor)
		if err != nil {
			return nil, err
		}
		s, err := e.accountStats(actor, account)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// NumAccounts returns the total number of accounts ever created.
func (e *Engine) NumAccounts() (uint64, error) {
	ids, err := e.enumMembers(accountIndexKey)
	if err != nil {
		return 0, err
	}
	return uint64(len(ids)), nil
}

// GetFollowers pages over the actors following the given account.
func (e *Engine) GetFollowers(actor string, fromIndex, limit uint64) ([]*AccountStats, error) {
	if _, err := e.requireAccount(actor); err != nil {
		return nil, err
	}
	ids, err := e.indexMembers(relFollowers, actor)
	if err != nil {
		return nil, err
	}
	return e.statsForRange(pageForward(ids, fromIndex, limit))
}

// GetFollowing pages over the accounts the given actor follows. An unknown
// actor yields an empty page.
func (e *Engine) GetFollowing(actor string, fromIndex, limit uint64) ([]*AccountStats, error) {
	_, ok, err := e.getAccount(actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*AccountStats{}, nil
	}
	ids, err := e.indexMembers(relFollowing, actor)
	if err != nil {
		return nil, err
	}
	return e.statsForRange(pageForward(ids, fromIndex, limit))
}

// IsFollowing reports whether follower currently follows followed.
func (e *Engine) IsFollowing(follower, followed string) (bool, error) {
	return e.indexContains(relFollowing, follower, followed)
}

// GetBookmarks pages newest-first over the caller's bookmarked posts.
func (e *Engine) GetBookmarks(actor string, fromIndex, limit uint64) ([]*Post, error) {
	account, err := e.requireAccount(actor)
	if err != nil {
		return nil, err
	}
	page := pageReverse(account.Bookmarks, fromIndex, limit)
	posts := make([]*Post, 0, len(page))
	for _, id := range page {
		post, ok, err := e.getPost(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPostNotFound, id)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (e *Engine) statsForRange(ids []string) ([]*AccountStats, error) {
	stats := make([]*AccountStats, 0, len(ids))
	for _, actor := range ids {
		account, ok, err := e.getAccount(actor)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		s, err := e.accountStats(actor, account)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}
