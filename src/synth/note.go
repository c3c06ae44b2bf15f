package synth

// ----- Note ----- //

// Note is one sounding voice: a frequency/amplitude pair with its own
// timeline and oscillator state.
type Note struct {
	// Freq is the frequency of the note, in Hz.
	Freq float32
	// Amp is the amplitude of the note.
	Amp float32
	// Time is the time since the note started or was released,
	// depending on Held, in seconds.
	Time float32
	// Held reports whether the note is still being held.
	Held bool
	// State is the oscillator state owned by this note.
	State OscillatorState
}

// heldState tags the note's elapsed time, shifted by tOffset seconds,
// for envelope sampling.
func (n *Note) heldState(tOffset float32) NoteState {
	if n.Held {
		return Holding(n.Time + tOffset)
	}
	return Released(n.Time + tOffset)
}

// ----- Note List ----- //

// NoteID is a handle to a note in a noteList. It stays valid until the
// note is evicted or removed; after that, lookups report "not found"
// rather than whatever note reuses the storage slot.
type NoteID struct {
	index      int32
	generation uint32
}

const noIndex = int32(-1)

type noteSlot struct {
	note       Note
	generation uint32
	live       bool
	prev, next int32
}

// noteList stores currently playing notes: a doubly-linked list in
// insertion order, threaded through a generation-checked slot store.
// The linked list makes evicting the oldest note O(1), the slot store
// makes lookup and removal by NoteID O(1), and the generation check
// keeps recycled slots from aliasing stale handles.
type noteList struct {
	head, tail int32
	free       []int32
	slots      []noteSlot
	length     int
}

// newNoteList preallocates storage for exactly capacity notes.
// It panics if capacity is not positive.
func newNoteList(capacity int) *noteList {
	if capacity <= 0 {
		panic("synth: note list capacity must be positive")
	}
	l := &noteList{
		head:  noIndex,
		tail:  noIndex,
		slots: make([]noteSlot, capacity),
		free:  make([]int32, 0, capacity),
	}
	for i := capacity - 1; i >= 0; i-- {
		l.slots[i].generation = 1
		l.free = append(l.free, int32(i))
	}
	return l
}

func (l *noteList) len() int {
	return l.length
}

// add appends note as the newest entry, evicting the single oldest
// note first if the list is full. The returned NoteID has never been
// issued for any other note.
func (l *noteList) add(note Note) NoteID {
	if l.length == len(l.slots) {
		l.remove(NoteID{index: l.head, generation: l.slots[l.head].generation})
	}
	index := l.free[len(l.free)-1]
	l.free = l.free[:len(l.free)-1]
	slot := &l.slots[index]
	slot.note = note
	slot.live = true
	slot.prev = l.tail
	slot.next = noIndex
	if l.tail != noIndex {
		l.slots[l.tail].next = index
	} else {
		l.head = index
	}
	l.tail = index
	l.length++
	return NoteID{index: index, generation: slot.generation}
}

// get returns the note for id, or nil if it has been evicted or
// removed.
func (l *noteList) get(id NoteID) *Note {
	if id.index < 0 || int(id.index) >= len(l.slots) {
		return nil
	}
	slot := &l.slots[id.index]
	if !slot.live || slot.generation != id.generation {
		return nil
	}
	return &slot.note
}

// remove unlinks the note for id. Removing an absent id is a no-op.
func (l *noteList) remove(id NoteID) {
	if l.get(id) == nil {
		return
	}
	slot := &l.slots[id.index]
	if slot.prev != noIndex {
		l.slots[slot.prev].next = slot.next
	} else {
		l.head = slot.next
	}
	if slot.next != noIndex {
		l.slots[slot.next].prev = slot.prev
	} else {
		l.tail = slot.prev
	}
	slot.live = false
	slot.note = Note{}
	slot.generation++ // invalidates every handle issued for this slot
	l.free = append(l.free, id.index)
	l.length--
}

// filter visits every note in insertion order and removes the ones for
// which keep returns false. keep sees each note before any removal in
// this pass affects the list.
func (l *noteList) filter(keep func(*Note) bool) {
	index := l.head
	for index != noIndex {
		slot := &l.slots[index]
		next := slot.next
		if !keep(&slot.note) {
			l.remove(NoteID{index: index, generation: slot.generation})
		}
		index = next
	}
}

// each visits every live note exactly once, in insertion order. f may
// mutate note fields but must not add or remove notes.
func (l *noteList) each(f func(*Note)) {
	for index := l.head; index != noIndex; index = l.slots[index].next {
		f(&l.slots[index].note)
	}
}
