package animation

import "slices"

// Callback is invoked once per tick with read access to the scheduler's target.
type Callback[T any] func(target T)

type entry[T any] struct {
	label string
	cb    Callback[T]
}

// Registry maps labels to callbacks. Inserting an existing label replaces its callback in
// place, so the label keeps its original position. Iteration follows first-insertion order.
// Registry is not safe for concurrent use; Scheduler guards it.
type Registry[T any] struct {
	entries []entry[T]
	index   map[string]int
}

// NewRegistry creates an empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		index: make(map[string]int),
	}
}

// Insert stores cb under label.
//
// Parameters:
//   - label: the key of the callback
//   - cb: the callback to store
//
// Returns:
//   - bool: true if an existing callback was replaced
func (r *Registry[T]) Insert(label string, cb Callback[T]) bool {
	if i, ok := r.index[label]; ok {
		r.entries[i].cb = cb
		return true
	}
	r.index[label] = len(r.entries)
	r.entries = append(r.entries, entry[T]{label: label, cb: cb})
	return false
}

// Remove deletes the callback stored under label.
//
// Returns:
//   - bool: true if a callback was removed
func (r *Registry[T]) Remove(label string) bool {
	i, ok := r.index[label]
	if !ok {
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	delete(r.index, label)
	for j := i; j < len(r.entries); j++ {
		r.index[r.entries[j].label] = j
	}
	return true
}

// Clear removes every callback.
func (r *Registry[T]) Clear() {
	clear(r.entries)
	r.entries = r.entries[:0]
	clear(r.index)
}

// Len returns the number of stored callbacks.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}

// Labels returns the stored labels in iteration order.
func (r *Registry[T]) Labels() []string {
	labels := make([]string, len(r.entries))
	for i, e := range r.entries {
		labels[i] = e.label
	}
	return labels
}

// Snapshot returns the callbacks in iteration order. The slice is a copy, so callbacks may
// modify the registry while it is being walked.
func (r *Registry[T]) Snapshot() []Callback[T] {
	cbs := make([]Callback[T], len(r.entries))
	for i, e := range r.entries {
		cbs[i] = e.cb
	}
	return cbs
}
