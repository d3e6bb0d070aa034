// Package pool collects per-frame transient objects and releases them
// together at the end of the frame.
package pool

// Releaser frees a transient resource.
type Releaser interface {
	Release()
}

// ReleaseFunc adapts a function to Releaser.
type ReleaseFunc func()

// Release calls f.
func (f ReleaseFunc) Release() {
	f()
}

// Pool holds releasers until Clear.
type Pool struct {
	objects  []Releaser
	clearing bool
	cleared  uint64
}

// New creates a pool with room for capacity objects before growing.
func New(capacity int) *Pool {
	return &Pool{
		objects: make([]Releaser, 0, capacity),
	}
}

// Add schedules r for release at the next Clear.
func (p *Pool) Add(r Releaser) {
	p.objects = append(p.objects, r)
}

// AddFunc schedules fn to run at the next Clear.
func (p *Pool) AddFunc(fn func()) {
	p.Add(ReleaseFunc(fn))
}

// Clear releases every object in insertion order. Objects added while
// clearing are released by the same call.
func (p *Pool) Clear() {
	if p.clearing {
		return
	}
	p.clearing = true
	defer func() { p.clearing = false }()

	for i := 0; i < len(p.objects); i++ {
		p.objects[i].Release()
		p.objects[i] = nil
		p.cleared++
	}
	p.objects = p.objects[:0]
}

// Len returns the number of objects waiting for release.
func (p *Pool) Len() int {
	return len(p.objects)
}

// Released returns the total number of objects released by this pool.
func (p *Pool) Released() uint64 {
	return p.cleared
}
