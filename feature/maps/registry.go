package maps

import "sort"

// marker is the adapter-side handle for one provider-native marker.
type marker struct {
	ID        string
	Coord     Coordinate
	Draggable bool
}

// registry maps device ids to marker handles. It is owned by a single
// adapter instance and torn down with it, so there is no ambient global
// marker state shared between providers or sessions.
type registry struct {
	markers map[string]*marker
}

func newRegistry() *registry {
	return &registry{markers: make(map[string]*marker)}
}

func (r *registry) get(id string) (*marker, bool) {
	m, ok := r.markers[id]
	return m, ok
}

func (r *registry) put(m *marker) {
	r.markers[m.ID] = m
}

func (r *registry) remove(id string) {
	delete(r.markers, id)
}

// ids returns the registered marker ids in deterministic order.
func (r *registry) ids() []string {
	out := make([]string, 0, len(r.markers))
	for id := range r.markers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *registry) clear() {
	r.markers = make(map[string]*marker)
}
