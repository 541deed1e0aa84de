package newsletter

import (
	"sort"
	"sync"
	"time"
)

// Subscription is a confirmed newsletter address.
type Subscription struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// Registry is the in-memory subscriber list.
type Registry struct {
	mu      sync.RWMutex
	byEmail map[string]Subscription
}

func NewRegistry() *Registry {
	return &Registry{byEmail: make(map[string]Subscription)}
}

// Add stores sub unless the address is already subscribed. It reports whether sub was new.
func (r *Registry) Add(sub Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[sub.Email]; ok {
		return false
	}
	r.byEmail[sub.Email] = sub
	return true
}

func (r *Registry) Contains(email string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[normalize(email)]
	return ok
}

// List returns subscriptions ordered by email.
func (r *Registry) List() []Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Subscription, 0, len(r.byEmail))
	for _, sub := range r.byEmail {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
