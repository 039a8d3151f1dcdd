package services

import (
	"sync"

	"github.com/morkath/contacts/internal/models"
)

// notifier fans the latest committed contact list out to subscribers.
// Each subscriber channel holds at most one pending snapshot: a newer
// snapshot replaces an undelivered older one, so a slow reader only ever
// observes the latest state, never a stale intermediate.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan []models.Contact
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan []models.Contact)}
}

func (n *notifier) subscribe() (int, chan []models.Contact) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	ch := make(chan []models.Contact, 1)
	n.subs[id] = ch
	return id, ch
}

func (n *notifier) unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if ch, ok := n.subs[id]; ok {
		delete(n.subs, id)
		close(ch)
	}
}

func (n *notifier) publish(snapshot []models.Contact) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		// drop an undelivered snapshot before queueing the newer one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
