package gotrue

import (
	"github.com/oklog/ulid/v2"
)

// AuthChangeFunc receives auth state transitions. The session is nil for
// SIGNED_OUT.
type AuthChangeFunc func(event AuthChangeEvent, session *Session)

// Subscription is a registered auth state listener. Call Unsubscribe to
// stop receiving events.
type Subscription struct {
	ID     string
	client *Client
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.client.subscribersMu.Lock()
	defer s.client.subscribersMu.Unlock()
	delete(s.client.subscribers, s.ID)
}

// OnAuthStateChange registers fn to be called synchronously on every auth
// state transition: sign-in, sign-out, token refresh, user update and
// password recovery.
func (c *Client) OnAuthStateChange(fn AuthChangeFunc) *Subscription {
	id := ulid.Make().String()

	c.subscribersMu.Lock()
	c.subscribers[id] = fn
	c.subscribersMu.Unlock()

	return &Subscription{ID: id, client: c}
}

// notifyAllSubscribers delivers event to every registered listener. Delivery
// is synchronous; a slow listener blocks the calling auth operation.
func (c *Client) notifyAllSubscribers(event AuthChangeEvent, session *Session) {
	c.subscribersMu.RLock()
	listeners := make([]AuthChangeFunc, 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		listeners = append(listeners, fn)
	}
	c.subscribersMu.RUnlock()

	for _, fn := range listeners {
		fn(event, session)
	}
}
