package client

import "cloudchat/internal/models"

// DedupLedger is the sole guard against duplicate rendering when the
// transport redelivers events (reconnect replay, at-least-once delivery).
// It remembers the last capacity admitted identifiers in a fixed ring;
// eviction is insertion order, since replay protection only has to cover
// one delivery window, not all history.
type DedupLedger struct {
	seen map[models.MessageID]struct{}
	ring []models.MessageID
	next int
}

const DefaultDedupCapacity = 500

func NewDedupLedger(capacity int) *DedupLedger {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &DedupLedger{
		seen: make(map[models.MessageID]struct{}, capacity),
		ring: make([]models.MessageID, capacity),
	}
}

// Admit reports whether id is new, inserting it if so. A repeated id is
// rejected for as long as it remains inside the ring window.
func (d *DedupLedger) Admit(id models.MessageID) bool {
	if _, dup := d.seen[id]; dup {
		return false
	}
	if old := d.ring[d.next]; old != "" {
		delete(d.seen, old)
	}
	d.ring[d.next] = id
	d.next = (d.next + 1) % len(d.ring)
	d.seen[id] = struct{}{}
	return true
}

func (d *DedupLedger) Len() int {
	return len(d.seen)
}

// Reset drops all remembered identifiers.
func (d *DedupLedger) Reset() {
	clear(d.seen)
	for i := range d.ring {
		d.ring[i] = ""
	}
	d.next = 0
}
