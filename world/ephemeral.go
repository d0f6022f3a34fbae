package world

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/sandbox/entity"
)

// EphemeralSink is the scene collaborator that shows decals.
type EphemeralSink interface {
	Attach(d entity.Decal)
	Detach(d entity.Decal)
}

// EphemeralQueue holds decals in the order they were added. Every decal lives for the same
// lifespan, so insertion order is also expiry order and only the head ever needs checking.
type EphemeralQueue struct {
	lifespan float32
	entries  *orderedmap.OrderedMap[uint64, entity.Decal]
	next     uint64
}

// NewEphemeralQueue creates an empty queue for decals living lifespan seconds.
func NewEphemeralQueue(lifespan float32) *EphemeralQueue {
	return &EphemeralQueue{lifespan: lifespan, entries: orderedmap.NewOrderedMap[uint64, entity.Decal]()}
}

// Push appends a decal to the tail of the queue.
func (q *EphemeralQueue) Push(d entity.Decal) {
	q.next++
	q.entries.Set(q.next, d)
}

// Len returns the number of queued decals.
func (q *EphemeralQueue) Len() int {
	return q.entries.Len()
}

// Front returns the oldest decal.
func (q *EphemeralQueue) Front() (entity.Decal, bool) {
	el := q.entries.Front()
	if el == nil {
		return entity.Decal{}, false
	}
	return el.Value, true
}

// Expire pops every decal from the head whose lifespan ended at or before now, oldest first.
func (q *EphemeralQueue) Expire(now float32) []entity.Decal {
	var expired []entity.Decal
	for el := q.entries.Front(); el != nil && el.Value.Created+q.lifespan <= now; el = q.entries.Front() {
		expired = append(expired, el.Value)
		q.entries.Delete(el.Key)
	}
	return expired
}

// RemoveParent drops every decal attached to the entity passed and returns them.
func (q *EphemeralQueue) RemoveParent(id entity.ID) []entity.Decal {
	var removed []entity.Decal
	for el := q.entries.Front(); el != nil; {
		next := el.Next()
		if el.Value.Parent == id {
			removed = append(removed, el.Value)
			q.entries.Delete(el.Key)
		}
		el = next
	}
	return removed
}

// All returns every queued decal, oldest first.
func (q *EphemeralQueue) All() []entity.Decal {
	list := make([]entity.Decal, 0, q.entries.Len())
	for el := q.entries.Front(); el != nil; el = el.Next() {
		list = append(list, el.Value)
	}
	return list
}
