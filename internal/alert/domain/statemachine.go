package domain

import "sort"

var sosTransitions = map[Status][]Status{
	StatusNew:          {StatusAcknowledged, StatusResolved},
	StatusAcknowledged: {StatusResolved},
	StatusResolved:     {},
}

var fraudTransitions = map[Status][]Status{
	StatusNew:         {StatusReviewing, StatusDismissed, StatusActionTaken},
	StatusReviewing:   {StatusDismissed, StatusActionTaken},
	StatusDismissed:   {},
	StatusActionTaken: {},
}

// CanTransition reports whether an alert of the given kind may move from
// one status to another. Transition back to "new" is never permitted.
func CanTransition(kind Kind, from, to Status) bool {
	if to == StatusNew {
		return false
	}

	table := sosTransitions
	if kind.IsFraud() {
		table = fraudTransitions
	}

	allowed, ok := table[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status admits no further transitions.
func Terminal(kind Kind, status Status) bool {
	table := sosTransitions
	if kind.IsFraud() {
		table = fraudTransitions
	}
	allowed, ok := table[status]
	return ok && len(allowed) == 0
}

// SeverityRank orders alerts for operator display: open work first.
// Lower rank sorts first; ties break on CreatedAt descending.
func SeverityRank(status Status) int {
	switch status {
	case StatusNew:
		return 0
	case StatusAcknowledged, StatusReviewing:
		return 1
	default:
		return 2
	}
}

// SortForDisplay orders alerts in place by severity rank, then CreatedAt
// descending.
func SortForDisplay(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := SeverityRank(alerts[i].Status), SeverityRank(alerts[j].Status)
		if ri != rj {
			return ri < rj
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}
