package room

import "github.com/plazahq/plaza/internal/geometry"

// Zone is a named, topic-labeled rectangular conversation region.
// Occupants are kept in arrival order; a zone never exists with zero
// occupants after losing one (the controller destroys it), but a zone
// created over empty space persists until it gains and then loses occupants.
type Zone struct {
	// Label uniquely identifies the zone within its room.
	Label string `json:"label"`
	// Topic is the human-readable conversation topic.
	Topic string `json:"topic"`
	// Box is the zone's bounding rectangle, centered at (Box.X, Box.Y).
	Box geometry.BoundingBox `json:"boundingBox"`
	// OccupantIDs lists occupant participant IDs in arrival order.
	OccupantIDs []string `json:"occupantsByID"`
}

// removeOccupant deletes id from the occupant list, preserving order.
// Returns true if the id was present.
func (z *Zone) removeOccupant(id string) bool {
	for i, occ := range z.OccupantIDs {
		if occ == id {
			z.OccupantIDs = append(z.OccupantIDs[:i], z.OccupantIDs[i+1:]...)
			return true
		}
	}
	return false
}
