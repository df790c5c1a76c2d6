package social

import "fmt"

// Comments are an append-only log per post, not a set: order is the data and
// edits replace an entry in place by its position.

func (e *Engine) commentsKey(postID string) []byte {
	return entityKey(commentsPrefix, postID)
}

func (e *Engine) getComments(postID string) ([]Comment, error) {
	var log []Comment
	ok, err := e.st.KVGet(e.commentsKey(postID), &log)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Comment{}, nil
	}
	return log, nil
}

// Comment appends to the post's comment log, creating the log on first use.
func (e *Engine) Comment(call Call, postID, body string) (*Comment, error) {
	var created *Comment
	err := e.apply("comment", call, func() error {
		if len(body) > ContentHashLength {
			return fmt.Errorf("%w: comment body exceeds %d characters", ErrValidation, ContentHashLength)
		}
		if _, ok, err := e.getPost(postID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		log, err := e.getComments(postID)
		if err != nil {
			return err
		}
		comment := Comment{Owner: call.Caller, Body: body, Time: e.now()}
		if err := e.st.KVPut(e.commentsKey(postID), append(log, comment)); err != nil {
			return err
		}
		created = &comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EditComment replaces the comment at the given position. Only the comment's
// owner may edit it; the post id and position are unchanged.
func (e *Engine) EditComment(call Call, postID string, index uint64, body string) (*Comment, error) {
	var edited *Comment
	err := e.apply("edit_comment", call, func() error {
		if len(body) > ContentHashLength {
			return fmt.Errorf("%w: comment body exceeds %d characters", ErrValidation, ContentHashLength)
		}
		log, err := e.getComments(postID)
		if err != nil {
			return err
		}
		if index >= uint64(len(log)) {
			return fmt.Errorf("%w: comment %d on %s", ErrCommentNotFound, index, postID)
		}
		if log[index].Owner != call.Caller {
			return fmt.Errorf("%w: only the comment owner may edit it", ErrPermission)
		}
		log[index].Body = body
		log[index].Time = e.now()
		if err := e.st.KVPut(e.commentsKey(postID), log); err != nil {
			return err
		}
		edited = &log[index]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// GetComments pages newest-first over a post's comment log.
func (e *Engine) GetComments(postID string, fromIndex, limit uint64) ([]Comment, error) {
	log, err := e.getComments(postID)
	if err != nil {
		return nil, err
	}
	from, to := reverseWindow(uint64(len(log)), fromIndex, limit)
	page := make([]Comment, 0, to-from)
	for i := to; i > from; i-- {
		page = append(page, log[i-1])
	}
	return page, nil
}

// NumComments returns the length of a post's comment log.
func (e *Engine) NumComments(postID string) (uint64, error) {
	log, err := e.getComments(postID)
	if err != nil {
		return 0, err
	}
	return uint64(len(log)), nil
}
