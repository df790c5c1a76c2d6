package social

import "fmt"

func (e *Engine) chestKey(chestID string) []byte {
	return entityKey(chestPrefix, chestID)
}

func (e *Engine) getChest(chestID string) (*Chest, bool, error) {
	var chest Chest
	ok, err := e.getRecord(e.chestKey(chestID), &chest)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &chest, true, nil
}

func (e *Engine) requireChest(chestID string) (*Chest, error) {
	chest, ok, err := e.getChest(chestID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChestNotFound, chestID)
	}
	return chest, nil
}

func validateChestInput(message string, location Location, payload ChestPayload) error {
	if len(message) > MaxChestMessageLength {
		return fmt.Errorf("%w: chest message exceeds %d characters", ErrValidation, MaxChestMessageLength)
	}
	if location.Label == "" {
		return fmt.Errorf("%w: location label required", ErrValidation)
	}
	switch payload.Kind {
	case ChestStandard:
		return nil
	case ChestImage, ChestVideo:
		if !validURL(payload.URL) {
			return fmt.Errorf("%w: payload url %q is not a valid url", ErrValidation, payload.URL)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown chest kind %d", ErrValidation, payload.Kind)
	}
}

func (e *Engine) newChest(call Call, senderName, code, message string, payload ChestPayload, location Location, expiresIn uint64) *Chest {
	if expiresIn == 0 {
		expiresIn = DefaultChestExpiry
	}
	return &Chest{
		ID:         fmt.Sprintf("%d_%s", e.now(), call.Caller),
		Sender:     call.Caller,
		SenderName: senderName,
		Code:       code,
		Message:    message,
		Location:   location,
		Time:       e.now(),
		ExpiresIn:  expiresIn,
		Payload:    payload,
	}
}

func (e *Engine) storeChest(chest *Chest) error {
	if err := e.putRecord(e.chestKey(chest.ID), chest); err != nil {
		return err
	}
	if err := e.indexInsert(relPlaceChests, chest.Location.Label, chest.ID); err != nil {
		return err
	}
	e.emit(chestPlaced{ChestID: chest.ID, Sender: chest.Sender, Place: chest.Location.Label})
	return nil
}

// PlaceChest drops a chest owned by the caller at the given place. An account
// may hold at most MaxChestsPerAccount placed chests at a time.
func (e *Engine) PlaceChest(call Call, senderName, code, message string, payload ChestPayload, location Location, expiresIn uint64) (*Chest, error) {
	var created *Chest
	err := e.apply("place_chest", call, func() error {
		if err := validateChestInput(message, location, payload); err != nil {
			return err
		}
		account, err := e.getOrCreateAccount(call.Caller)
		if err != nil {
			return err
		}
		if len(account.Chests) >= MaxChestsPerAccount {
			return fmt.Errorf("%w: at most %d placed chests", ErrChestLimit, MaxChestsPerAccount)
		}
		chest := e.newChest(call, senderName, code, message, payload, location, expiresIn)
		account.Chests = append(account.Chests, chest.ID)
		if err := e.putAccount(call.Caller, account); err != nil {
			return err
		}
		if err := e.storeChest(chest); err != nil {
			return err
		}
		created = chest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// PlaceMessageChest drops a chest bought with an exact attached payment. The
// payment is consumed as the purchase price, so it buys no storage quota, and
// the chest is not counted against the account's placement cap.
func (e *Engine) PlaceMessageChest(call Call, senderName, code, message string, payload ChestPayload, location Location, expiresIn uint64) (*Chest, error) {
	var created *Chest
	err := e.apply("place_message_chest", call, func() error {
		if err := validateChestInput(message, location, payload); err != nil {
			return err
		}
		if call.deposit().Cmp(e.messageChestCost) != 0 {
			return fmt.Errorf("%w: must attach exactly %s", ErrValidation, e.messageChestCost)
		}
		e.consumeAttachedDeposit()
		if _, err := e.getOrCreateAccount(call.Caller); err != nil {
			return err
		}
		chest := e.newChest(call, senderName, code, message, payload, location, expiresIn)
		if err := e.storeChest(chest); err != nil {
			return err
		}
		created = chest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReplaceChest swaps an expired chest the caller owns for a fresh one. The
// new id takes the old one's slot in the account's chest list; the old record
// and its place-index entry are removed in the same call.
func (e *Engine) ReplaceChest(call Call, oldChestID, senderName, code, message string, payload ChestPayload, location Location, expiresIn uint64) (*Chest, error) {
	var created *Chest
	err := e.apply("replace_chest", call, func() error {
		if err := validateChestInput(message, location, payload); err != nil {
			return err
		}
		old, err := e.requireChest(oldChestID)
		if err != nil {
			return err
		}
		if !old.expired(e.now()) {
			return fmt.Errorf("%w: %s can only be replaced after expiry", ErrChestActive, oldChestID)
		}
		account, err := e.requireAccount(call.Caller)
		if err != nil {
			return err
		}
		slot := -1
		for i, id := range account.Chests {
			if id == oldChestID {
				slot = i
				break
			}
		}
		if slot < 0 {
			return fmt.Errorf("%w: caller does not own chest %s", ErrPermission, oldChestID)
		}
		chest := e.newChest(call, senderName, code, message, payload, location, expiresIn)
		account.Chests[slot] = chest.ID
		if err := e.putAccount(call.Caller, account); err != nil {
			return err
		}
		if err := e.st.KVDelete(e.chestKey(oldChestID)); err != nil {
			return err
		}
		if err := e.indexRemove(relPlaceChests, old.Location.Label, oldChestID); err != nil {
			return err
		}
		if err := e.storeChest(chest); err != nil {
			return err
		}
		created = chest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EditChest moves a chest to a new location. Owner or admin only; moving
// between place labels re-indexes the chest and prunes the old label's bucket
// when it empties.
func (e *Engine) EditChest(call Call, chestID string, location Location) (*Chest, error) {
	var edited *Chest
	err := e.apply("edit_chest", call, func() error {
		if location.Label == "" {
			return fmt.Errorf("%w: location label required", ErrValidation)
		}
		chest, err := e.requireChest(chestID)
		if err != nil {
			return err
		}
		if err := e.requireOwnerOrAdmin(call.Caller, chest.Sender); err != nil {
			return err
		}
		if chest.Location.Label != location.Label {
			if err := e.indexRemove(relPlaceChests, chest.Location.Label, chestID); err != nil {
				return err
			}
			if err := e.indexInsert(relPlaceChests, location.Label, chestID); err != nil {
				return err
			}
		}
		chest.Location = location
		if err := e.putRecord(e.chestKey(chestID), chest); err != nil {
			return err
		}
		edited = chest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// DeleteChest removes a chest from the primary store, the owner's chest list
// and the place index in the same call. Owner or admin only.
func (e *Engine) DeleteChest(call Call, chestID string) error {
	return e.apply("delete_chest", call, func() error {
		chest, err := e.requireChest(chestID)
		if err != nil {
			return err
		}
		if err := e.requireOwnerOrAdmin(call.Caller, chest.Sender); err != nil {
			return err
		}
		if err := e.st.KVDelete(e.chestKey(chestID)); err != nil {
			return err
		}
		owner, ok, err := e.getAccount(chest.Sender)
		if err != nil {
			return err
		}
		if ok {
			for i, id := range owner.Chests {
				if id == chestID {
					owner.Chests = append(owner.Chests[:i], owner.Chests[i+1:]...)
					if err := e.putAccount(chest.Sender, owner); err != nil {
						return err
					}
					break
				}
			}
		}
		return e.indexRemove(relPlaceChests, chest.Location.Label, chestID)
	})
}

// --- queries ---

// ChestsByPlace lists every chest at a place label; unknown labels yield an
// empty list.
func (e *Engine) ChestsByPlace(label string) ([]*Chest, error) {
	ids, err := e.indexMembers(relPlaceChests, label)
	if err != nil {
		return nil, err
	}
	return e.chestsForIDs(ids)
}

// ActiveChestsByPlace lists the chests at a place that have not expired yet.
func (e *Engine) ActiveChestsByPlace(label string) ([]*Chest, error) {
	chests, err := e.ChestsByPlace(label)
	if err != nil {
		return nil, err
	}
	now := e.now()
	active := make([]*Chest, 0, len(chests))
	for _, chest := range chests {
		if !chest.expired(now) {
			active = append(active, chest)
		}
	}
	return active, nil
}

// ChestsByAccount lists the chests placed by an actor; unknown actors yield
// an empty list.
func (e *Engine) ChestsByAccount(actor string) ([]*Chest, error) {
	account, ok, err := e.getAccount(actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*Chest{}, nil
	}
	return e.chestsForIDs(account.Chests)
}

// AllChests walks the place enumeration set and flattens every bucket.
func (e *Engine) AllChests() ([]*Chest, error) {
	labels, err := e.enumMembers(placeIndexKey)
	if err != nil {
		return nil, err
	}
	var chests []*Chest
	for _, label := range labels {
		atPlace, err := e.ChestsByPlace(label)
		if err != nil {
			return nil, err
		}
		chests = append(chests, atPlace...)
	}
	return chests, nil
}

// PlaceIDs lists every place label with at least one chest.
func (e *Engine) PlaceIDs() ([]string, error) {
	return e.enumMembers(placeIndexKey)
}

func (e *Engine) chestsForIDs(ids []string) ([]*Chest, error) {
	chests := make([]*Chest, 0, len(ids))
	for _, id := range ids {
		chest, err := e.requireChest(id)
		if err != nil {
			return nil, err
		}
		chests = append(chests, chest)
	}
	return chests, nil
}
