package zimmet

// ItemStatus is the canonical status of a physical asset. It is owned by the
// engine: no other component writes it.
type ItemStatus string

const (
	ItemIdle     ItemStatus = "idle"
	ItemAssigned ItemStatus = "assigned"
	ItemPending  ItemStatus = "pending"
	ItemFaulty   ItemStatus = "faulty"
	ItemScrapped ItemStatus = "scrapped"
)

// AssignmentStatus is the lifecycle state of one holding period.
type AssignmentStatus string

const (
	StatusPending  AssignmentStatus = "pending"
	StatusAssigned AssignmentStatus = "assigned"
	StatusReturned AssignmentStatus = "returned"
	StatusFaulty   AssignmentStatus = "faulty"
	StatusScrapped AssignmentStatus = "scrapped"
)

var transitions = map[AssignmentStatus][]AssignmentStatus{
	StatusPending:  {StatusAssigned},
	StatusAssigned: {StatusReturned, StatusFaulty, StatusScrapped},
	StatusFaulty:   {StatusReturned, StatusScrapped},
}

// canTransition reports whether an assignment may move between the two states.
// Returned and scrapped are terminal.
func canTransition(from, to AssignmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// itemStatusFor maps an assignment status to the item status it implies:
// a returned assignment releases the item, every other state is mirrored.
func itemStatusFor(s AssignmentStatus) ItemStatus {
	if s == StatusReturned {
		return ItemIdle
	}
	return ItemStatus(s)
}

// ValidAssignmentStatus reports whether s names a known assignment status.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case StatusPending, StatusAssigned, StatusReturned, StatusFaulty, StatusScrapped:
		return true
	}
	return false
}
