package social

import "fmt"

func (e *Engine) postKey(postID string) []byte {
	return entityKey(postPrefix, postID)
}

func (e *Engine) getPost(postID string) (*Post, bool, error) {
	var post Post
	ok, err := e.getRecord(e.postKey(postID), &post)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &post, true, nil
}

func (e *Engine) validatePostInput(title, body string, payload PostPayload) error {
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLength)
	}
	if len(body) != ContentHashLength {
		return fmt.Errorf("%w: body must be a %d-character content hash", ErrValidation, ContentHashLength)
	}
	return payload.validate()
}

// newPostID derives a post id whose first segment is the creation timestamp;
// the ranking scans depend on that prefix.
func (e *Engine) newPostID(author string) string {
	return fmt.Sprintf("%d_%s", e.now(), author)
}

// CreatePost stores a post under the caller with a copy of the referenced
// topic embedded at creation time, and registers it in the author and topic
// indices.
func (e *Engine) CreatePost(call Call, title, body string, payload PostPayload, topicID string) (*Post, error) {
	var created *Post
	err := e.apply("create_post", call, func() error {
		if err := e.validatePostInput(title, body, payload); err != nil {
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
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		post := &Post{
			ID:      e.newPostID(call.Caller),
			Author:  call.Caller,
			Topic:   topic,
			Title:   title,
			Body:    body,
			Payload: payload,
			Time:    e.now(),
		}
		if err := e.putRecord(e.postKey(post.ID), post); err != nil {
			return err
		}
		if err := e.enumAdd(postIndexKey, post.ID); err != nil {
			return err
		}
		if err := e.indexInsert(relUserPosts, call.Caller, post.ID); err != nil {
			return err
		}
		if err := e.indexInsert(relTopicPosts, topicID, post.ID); err != nil {
			return err
		}
		created = post
		e.emit(postCreated{PostID: post.ID, Author: call.Caller, Topic: topicID})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeletePost removes the post from the primary store and every index that
// references it in the same call, then records its id in the tombstone set.
func (e *Engine) DeletePost(call Call, postID string) error {
	return e.apply("delete_post", call, func() error {
		post, ok, err := e.getPost(postID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		if err := e.requireOwnerOrAdmin(call.Caller, post.Author); err != nil {
			return err
		}
		if err := e.st.KVDelete(e.postKey(postID)); err != nil {
			return err
		}
		if err := e.enumRemove(postIndexKey, postID); err != nil {
			return err
		}
		if err := e.indexRemove(relUserPosts, post.Author, postID); err != nil {
			return err
		}
		if err := e.indexRemove(relTopicPosts, post.Topic.ID, postID); err != nil {
			return err
		}
		if err := e.dropPostAnnotations(postID); err != nil {
			return err
		}
		if err := e.enumAdd(deletedPostsKey, postID); err != nil {
			return err
		}
		e.emit(postDeleted{PostID: postID, Author: post.Author})
		return nil
	})
}

// dropPostAnnotations clears the vote bucket, comment log and repost guard of
// a deleted post so no secondary index outlives the record.
func (e *Engine) dropPostAnnotations(postID string) error {
	voteKey := entityKey(votesPrefix, postID)
	hasVotes, err := e.st.KVHas(voteKey)
	if err != nil {
		return err
	}
	if hasVotes {
		if err := e.st.KVDelete(voteKey); err != nil {
			return err
		}
		if err := e.enumRemove(voteIndexKey, postID); err != nil {
			return err
		}
	}
	if err := e.st.KVDelete(entityKey(commentsPrefix, postID)); err != nil {
		return err
	}
	return e.st.KVDelete(relRepostGuard.key(postID))
}

// MarkRepost records that the caller reposted the given post; a second repost
// of the same post by the same actor is rejected.
func (e *Engine) MarkRepost(call Call, postID string) error {
	return e.apply("mark_repost", call, func() error {
		if _, ok, err := e.getPost(postID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		return e.indexInsert(relRepostGuard, postID, call.Caller)
	})
}

// HasReposted reports whether the actor already reposted the post.
func (e *Engine) HasReposted(postID, actor string) (bool, error) {
	return e.indexContains(relRepostGuard, postID, actor)
}

// --- queries ---

// GetPost returns a post by id; a missing id is an error since callers asking
// by id assume existence.
func (e *Engine) GetPost(postID string) (*Post, error) {
	post, ok, err := e.getPost(postID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}
	return post, nil
}

// GetPosts pages newest-first over all posts.
func (e *Engine) GetPosts(fromIndex, limit uint64) ([]*Post, error) {
	ids, err := e.enumMembers(postIndexKey)
	if err != nil {
		return nil, err
	}
	return e.postsForIDs(pageReverse(ids, fromIndex, limit))
}

// GetPostsByAccount pages newest-first over one author's posts.
func (e *Engine) GetPostsByAccount(actor string, fromIndex, limit uint64) ([]*Post, error) {
	ids, err := e.indexMembers(relUserPosts, actor)
	if err != nil {
		return nil, err
	}
	return e.postsForIDs(pageReverse(ids, fromIndex, limit))
}

// NumPostsByAccount returns the number of live posts by the author.
func (e *Engine) NumPostsByAccount(actor string) (uint64, error) {
	return e.indexLen(relUserPosts, actor)
}

// GetPostsByTopic lists the post ids filed under a topic.
func (e *Engine) GetPostsByTopic(topicID string) ([]string, error) {
	return e.indexMembers(relTopicPosts, topicID)
}

// GetPostsByIDs resolves a batch of post ids; unknown ids fail the lookup.
func (e *Engine) GetPostsByIDs(postIDs []string) ([]*Post, error) {
	return e.postsForIDs(postIDs)
}

// DeletedPosts lists the tombstoned post ids.
func (e *Engine) DeletedPosts() ([]string, error) {
	return e.enumMembers(deletedPostsKey)
}

func (e *Engine) postsForIDs(ids []string) ([]*Post, error) {
	posts := make([]*Post, 0, len(ids))
	for _, id := range ids {
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
