package maps

import (
	"sort"

	"device-locator/feature/devices/models"
)

// ActionType represents the type of marker mutation.
type ActionType string

const (
	// ActionCreate creates a native marker for a new device id.
	ActionCreate ActionType = "create"
	// ActionMove updates the position of an existing marker.
	ActionMove ActionType = "move"
	// ActionRemove releases the marker of a device no longer present.
	ActionRemove ActionType = "remove"
)

// Action represents one planned marker mutation.
type Action struct {
	// Type specifies the mutation to perform.
	Type ActionType `json:"type"`

	// DeviceID is the marker key.
	DeviceID string `json:"device_id"`

	// Coord is the target position for create/move actions.
	Coord Coordinate `json:"coord"`
}

// PlanSummary provides aggregate counts for a marker plan.
type PlanSummary struct {
	Creates int `json:"creates"`
	Moves   int `json:"moves"`
	Removes int `json:"removes"`
	// Unchanged counts markers already in the right place.
	Unchanged int `json:"unchanged"`
}

// buildPlan diffs the desired device list against the current marker
// registry and plans the minimal set of mutations: create markers for new
// ids, remove markers for ids no longer present, move markers whose
// coordinates changed. The output order is deterministic (removes first,
// then creates and moves sorted by id) so the shim replays it stably.
func buildPlan(devices []models.Device, reg *registry) ([]Action, PlanSummary) {
	desired := make(map[string]Coordinate, len(devices))
	for _, d := range devices {
		desired[d.ID] = Coordinate{Lat: d.Latitude, Lng: d.Longitude}
	}

	var actions []Action
	var summary PlanSummary

	for _, id := range reg.ids() {
		if _, ok := desired[id]; !ok {
			actions = append(actions, Action{Type: ActionRemove, DeviceID: id})
			summary.Removes++
		}
	}

	ids := make([]string, 0, len(desired))
	for id := range desired {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		coord := desired[id]
		existing, ok := reg.get(id)
		switch {
		case !ok:
			actions = append(actions, Action{Type: ActionCreate, DeviceID: id, Coord: coord})
			summary.Creates++
		case existing.Coord != coord:
			actions = append(actions, Action{Type: ActionMove, DeviceID: id, Coord: coord})
			summary.Moves++
		default:
			summary.Unchanged++
		}
	}

	return actions, summary
}
