package social

import "fmt"

// Access gates. Every mutating operation checks its gate before touching
// state; profile edits are self-only by construction since they always target
// the caller's own account.

func (e *Engine) isRoot(actor string) bool {
	_, ok := e.roots[actor]
	return ok
}

func requireDistinct(caller, target string) error {
	if caller == target {
		return fmt.Errorf("%w: cannot target your own account", ErrPermission)
	}
	return nil
}

func (e *Engine) requireOwnerOrAdmin(caller, owner string) error {
	if caller == owner {
		return nil
	}
	admin, err := e.IsAdmin(caller)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("%w: caller is neither owner nor admin", ErrPermission)
	}
	return nil
}

// IsAdmin reports whether the actor holds global admin rights.
func (e *Engine) IsAdmin(actor string) (bool, error) {
	admins, err := e.st.KVGetList(adminSetKey)
	if err != nil {
		return false, err
	}
	for _, admin := range admins {
		if admin == actor {
			return true, nil
		}
	}
	return false, nil
}

// Admins lists the global admin set.
func (e *Engine) Admins() ([]string, error) {
	return e.st.KVGetList(adminSetKey)
}

// AddAdmin grants admin rights. Only a configured root account may do so.
func (e *Engine) AddAdmin(call Call, actor string) error {
	return e.apply("add_admin", call, func() error {
		if !e.isRoot(call.Caller) {
			return fmt.Errorf("%w: only root accounts may grant admin rights", ErrPermission)
		}
		if !validActor(actor) {
			return fmt.Errorf("%w: admin account required", ErrValidation)
		}
		admins, err := e.st.KVGetList(adminSetKey)
		if err != nil {
			return err
		}
		for _, admin := range admins {
			if admin == actor {
				return fmt.Errorf("%w: %s already holds admin rights", ErrDuplicateRelation, actor)
			}
		}
		return e.st.KVPutList(adminSetKey, append(admins, actor))
	})
}

// RemoveAdmin revokes admin rights. Only a configured root account may do so.
func (e *Engine) RemoveAdmin(call Call, actor string) error {
	return e.apply("remove_admin", call, func() error {
		if !e.isRoot(call.Caller) {
			return fmt.Errorf("%w: only root accounts may revoke admin rights", ErrPermission)
		}
		admins, err := e.st.KVGetList(adminSetKey)
		if err != nil {
			return err
		}
		for i, admin := range admins {
			if admin == actor {
				return e.st.KVPutList(adminSetKey, append(admins[:i], admins[i+1:]...))
			}
		}
		return fmt.Errorf("%w: %s holds no admin rights", ErrRelationNotFound, actor)
	})
}
