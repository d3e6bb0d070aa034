// Package event dispatches named, zero-payload lifecycle notifications.
package event

// Name identifies a lifecycle event.
type Name string

// Director lifecycle events.
const (
	BeforeUpdate      Name = "director_before_update"
	AfterUpdate       Name = "director_after_update"
	AfterVisit        Name = "director_after_visit"
	AfterDraw         Name = "director_after_draw"
	ProjectionChanged Name = "director_projection_changed"
	Reset             Name = "director_reset"
)

// Listener is called synchronously on dispatch.
type Listener func()

// ListenerID identifies a registration for removal.
type ListenerID uint64

type listener struct {
	id      ListenerID
	fn      Listener
	removed bool
}

// Bus delivers events to listeners in registration order.
type Bus struct {
	listeners map[Name][]*listener
	names     map[ListenerID]Name
	nextID    ListenerID
	enabled   bool
}

// New creates an enabled bus with no listeners.
func New() *Bus {
	return &Bus{
		listeners: make(map[Name][]*listener),
		names:     make(map[ListenerID]Name),
		nextID:    1, // 0 is "nil"
		enabled:   true,
	}
}

// Listen registers fn for name.
func (b *Bus) Listen(name Name, fn Listener) ListenerID {
	id := b.nextID
	b.nextID++
	b.listeners[name] = append(b.listeners[name], &listener{id: id, fn: fn})
	b.names[id] = name
	return id
}

// Remove unregisters a listener. A listener removed during a dispatch is
// not called for the rest of that dispatch.
func (b *Bus) Remove(id ListenerID) bool {
	name, ok := b.names[id]
	if !ok {
		return false
	}
	delete(b.names, id)

	list := b.listeners[name]
	for i, l := range list {
		if l.id == id {
			l.removed = true
			b.listeners[name] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	return true
}

// RemoveAll unregisters every listener.
func (b *Bus) RemoveAll() {
	for _, list := range b.listeners {
		for _, l := range list {
			l.removed = true
		}
	}
	b.listeners = make(map[Name][]*listener)
	b.names = make(map[ListenerID]Name)
}

// Dispatch calls every listener of name. Listeners added during the
// dispatch are called from the next dispatch on.
func (b *Bus) Dispatch(name Name) {
	if !b.enabled {
		return
	}
	list := b.listeners[name]
	for _, l := range list {
		if !l.removed {
			l.fn()
		}
	}
}

// SetEnabled turns dispatching on or off.
func (b *Bus) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// Enabled reports whether dispatching is on.
func (b *Bus) Enabled() bool {
	return b.enabled
}

// Count returns the number of listeners registered for name.
func (b *Bus) Count(name Name) int {
	return len(b.listeners[name])
}
