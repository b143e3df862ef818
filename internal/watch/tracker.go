package watch

import "fmt"

// NotifyPolicy controls when an item name may trigger again.
type NotifyPolicy string

const (
	// NotifyOncePerProcess fires at most once per name for the lifetime of
	// the process. Restart to re-arm.
	NotifyOncePerProcess NotifyPolicy = "process"
	// NotifyOnTransition re-arms a name once it has been observed back at
	// zero, so each out-of-stock -> in-stock transition fires.
	NotifyOnTransition NotifyPolicy = "transition"
)

// ParseNotifyPolicy validates a configured policy string.
func ParseNotifyPolicy(s string) (NotifyPolicy, error) {
	switch NotifyPolicy(s) {
	case NotifyOncePerProcess, NotifyOnTransition:
		return NotifyPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown notify policy %q", s)
	}
}

// Tracker owns the notified set: the names that have already triggered an
// alert. It is the only state shared across cycles and must only be
// touched from the scheduler loop goroutine.
type Tracker struct {
	policy   NotifyPolicy
	notified map[string]struct{}
}

// NewTracker creates a Tracker with an empty notified set.
func NewTracker(policy NotifyPolicy) *Tracker {
	return &Tracker{
		policy:   policy,
		notified: make(map[string]struct{}),
	}
}

// Delta returns the records in snapshot that newly qualify for
// notification: quantity above zero and not already in the notified set.
// Each included name is inserted into the notified set immediately, before
// the next record is inspected, so a name duplicated within one snapshot
// is included at most once. Under the transition policy a zero-quantity
// observation removes the name from the notified set, re-arming it.
func (t *Tracker) Delta(snapshot Snapshot) Snapshot {
	var delta Snapshot
	for _, rec := range snapshot {
		if rec.Quantity <= 0 {
			if t.policy == NotifyOnTransition {
				delete(t.notified, rec.Name)
			}
			continue
		}
		if _, seen := t.notified[rec.Name]; seen {
			continue
		}
		t.notified[rec.Name] = struct{}{}
		delta = append(delta, rec)
	}
	return delta
}
