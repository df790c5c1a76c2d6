package social

import (
	"fmt"
	"strings"
)

// slugID derives the deterministic id of a named entity; names are unique
// case-insensitively because the id is the lowercased name.
func slugID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func validateNameAndDescription(name, description string) error {
	if len(name) > MaxTitleLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrValidation, MaxTitleLength)
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	return nil
}

// CreateTopic registers a topic under the id derived from its name; the
// creator becomes the topic admin.
func (e *Engine) CreateTopic(call Call, name, description string) (string, error) {
	topicID := slugID(name)
	err := e.apply("create_topic", call, func() error {
		if err := validateNameAndDescription(name, description); err != nil {
			return err
		}
		key := entityKey(topicPrefix, topicID)
		exists, err := e.st.KVHas(key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrTopicExists, topicID)
		}
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		topic := &Topic{
			ID:          topicID,
			Admin:       call.Caller,
			Name:        name,
			Description: description,
			CreatedTime: e.now(),
		}
		if err := e.putRecord(key, topic); err != nil {
			return err
		}
		return e.enumAdd(topicIndexKey, topicID)
	})
	if err != nil {
		return "", err
	}
	return topicID, nil
}

// Topics lists every topic in creation order.
func (e *Engine) Topics() ([]*Topic, error) {
	ids, err := e.enumMembers(topicIndexKey)
	if err != nil {
		return nil, err
	}
	topics := make([]*Topic, 0, len(ids))
	for _, id := range ids {
		var topic Topic
		ok, err := e.getRecord(entityKey(topicPrefix, id), &topic)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, id)
		}
		topics = append(topics, &topic)
	}
	return topics, nil
}

// GetTopic returns a topic by id.
func (e *Engine) GetTopic(topicID string) (*Topic, error) {
	var topic Topic
	ok, err := e.getRecord(entityKey(topicPrefix, topicID), &topic)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, topicID)
	}
	return &topic, nil
}
