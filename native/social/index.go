package social

import "fmt"

// Relation buckets share one protocol: insert creates the bucket lazily and
// registers the left key in the relation's enumeration set, remove prunes the
// bucket and the enumeration entry when the last member goes. Buckets keep
// insertion order because pagination depends on it.

func (e *Engine) indexInsert(r relation, left, member string) error {
	key := r.key(left)
	list, err := e.st.KVGetList(key)
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing == member {
			return fmt.Errorf("%w: %s", ErrDuplicateRelation, member)
		}
	}
	if len(list) == 0 && r.enum != nil {
		if err := e.enumAdd(r.enum, left); err != nil {
			return err
		}
	}
	return e.st.KVPutList(key, append(list, member))
}

func (e *Engine) indexRemove(r relation, left, member string) error {
	key := r.key(left)
	list, err := e.st.KVGetList(key)
	if err != nil {
		return err
	}
	idx := -1
	for i, existing := range list {
		if existing == member {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRelationNotFound, member)
	}
	list = append(list[:idx], list[idx+1:]...)
	if len(list) == 0 {
		if err := e.st.KVDelete(key); err != nil {
			return err
		}
		if r.enum != nil {
			return e.enumRemove(r.enum, left)
		}
		return nil
	}
	return e.st.KVPutList(key, list)
}

func (e *Engine) indexMembers(r relation, left string) ([]string, error) {
	return e.st.KVGetList(r.key(left))
}

func (e *Engine) indexContains(r relation, left, member string) (bool, error) {
	list, err := e.st.KVGetList(r.key(left))
	if err != nil {
		return false, err
	}
	for _, existing := range list {
		if existing == member {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) indexLen(r relation, left string) (uint64, error) {
	list, err := e.st.KVGetList(r.key(left))
	if err != nil {
		return 0, err
	}
	return uint64(len(list)), nil
}

// Enumeration sets are plain deduplicated lists under a fixed key.

func (e *Engine) enumAdd(key []byte, member string) error {
	list, err := e.st.KVGetList(key)
	if err != nil {
		return err
	}
	for _, existing := range list {
		if existing == member {
			return nil
		}
	}
	return e.st.KVPutList(key, append(list, member))
}

func (e *Engine) enumRemove(key []byte, member string) error {
	list, err := e.st.KVGetList(key)
	if err != nil {
		return err
	}
	for i, existing := range list {
		if existing == member {
			return e.st.KVPutList(key, append(list[:i], list[i+1:]...))
		}
	}
	return nil
}

func (e *Engine) enumMembers(key []byte) ([]string, error) {
	return e.st.KVGetList(key)
}
