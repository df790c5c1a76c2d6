package social

import "fmt"

// ThreadID derives the canonical id of the private-message thread between two
// actors: the higher-sorting id first, concatenated with the other. Both
// participants resolve to the same thread whoever initiates.
func ThreadID(a, b string) string {
	if a > b {
		return a + "_" + b
	}
	return b + "_" + a
}

func (e *Engine) threadKey(threadID string) []byte {
	return entityKey(threadPrefix, threadID)
}

// SendMessage stores the latest exchange on the thread between the caller and
// the receiver, creating the thread and registering it with both accounts on
// first contact. A thread accepts at most one message per execution unit.
func (e *Engine) SendMessage(call Call, receiver, senderBody, receiverBody string) error {
	return e.apply("send_message", call, func() error {
		if !validActor(receiver) {
			return fmt.Errorf("%w: receiver required", ErrValidation)
		}
		threadID := ThreadID(call.Caller, receiver)
		key := e.threadKey(threadID)

		var last PrivateMessage
		exists, err := e.getRecord(key, &last)
		if err != nil {
			return err
		}
		message := PrivateMessage{
			ThreadID:     threadID,
			Sender:       call.Caller,
			Receiver:     receiver,
			SenderBody:   senderBody,
			ReceiverBody: receiverBody,
			Time:         e.now(),
			Height:       e.height(),
		}
		if exists {
			if last.Height == e.height() {
				return fmt.Errorf("%w: thread %s", ErrSameHeightMessage, threadID)
			}
			message.PrevHeight = last.Height
			if err := e.putRecord(key, &message); err != nil {
				return err
			}
		} else {
			if err := e.putRecord(key, &message); err != nil {
				return err
			}
			if _, err := e.getOrCreateAccount(call.Caller); err != nil {
				return err
			}
			if _, err := e.getOrCreateAccount(receiver); err != nil {
				return err
			}
			if err := e.indexInsert(relConversations, call.Caller, threadID); err != nil {
				return err
			}
			if call.Caller != receiver {
				if err := e.indexInsert(relConversations, receiver, threadID); err != nil {
					return err
				}
			}
		}
		e.emit(messageSent{ThreadID: threadID, Sender: call.Caller, Receiver: receiver})
		return nil
	})
}

// GetMessage returns the latest exchange on a thread, or nil when the thread
// does not exist; absence is a normal outcome here.
func (e *Engine) GetMessage(threadID string) (*PrivateMessage, error) {
	var message PrivateMessage
	ok, err := e.getRecord(e.threadKey(threadID), &message)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &message, nil
}
