package ekernel

// SortFunc orders two candidate processes competing for the same
// insertion point in a waiting queue. It returns true when a should be
// placed before b.
//
// Grounded on original_source/os/os_queue.c's os_queue_sort_fifo/
// os_queue_sort_lifo/os_queue_process_sort_priority: the kernel exposes
// the same three strategies so a custom event descriptor can reuse one
// instead of writing a comparator from scratch.
type SortFunc func(a, b *Process) bool

// SortFIFO always orders the incoming element after everything already
// queued: first registered, first woken.
func SortFIFO(a, b *Process) bool { return true }

// SortLIFO always orders the incoming element before everything already
// queued: last registered, first woken.
func SortLIFO(a, b *Process) bool { return false }

// SortPriority orders by ascending priority number (lower number wins),
// matching os_queue_process_sort_priority.
func SortPriority(a, b *Process) bool {
	return a.priority <= b.priority
}

// waitEntry is one registration of a process against a single event.
// sleepRegister allocates one per event a Sleep call names; it stays
// linked into that event's queue until the process is woken or the
// entry is dropped.
type waitEntry struct {
	next    *waitEntry
	proc    *Process
	event   *Event
	sibling *waitEntry // next entry belonging to the same Sleep call, for wait-any GC
}

// queueInsertSorted inserts elt into the singly-linked list headed by
// *head according to sortFn, defaulting to FIFO when sortFn is nil.
// Mirrors os_queue_add_sort: walk while sortFn(current, new) holds,
// splice after the last element that should precede the new one.
func queueInsertSorted(head **waitEntry, elt *waitEntry, sortFn SortFunc) {
	if sortFn == nil {
		sortFn = SortFIFO
	}
	var prev *waitEntry
	cur := *head
	for cur != nil && sortFn(cur.proc, elt.proc) {
		prev = cur
		cur = cur.next
	}
	if prev != nil {
		elt.next = prev.next
		prev.next = elt
	} else {
		elt.next = *head
		*head = elt
	}
}

// queueRemove unlinks elt from the list headed by *head, if present.
// Mirrors os_queue_remove.
func queueRemove(head **waitEntry, elt *waitEntry) bool {
	prev := (*waitEntry)(nil)
	cur := *head
	for cur != nil {
		if cur == elt {
			if prev != nil {
				prev.next = cur.next
			} else {
				*head = cur.next
			}
			return true
		}
		prev = cur
		cur = cur.next
	}
	return false
}
