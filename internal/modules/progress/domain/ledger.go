package domain

// XP bookkeeping mirrors the service: completions are worth a flat
// award, undos send the same amount back, and levels cut every 500.
const (
	TaskCompleteXP = 50
	LevelStep      = 500
	UndoPrefix     = "Undo: "
)

// ToggleResult is the intent one completion flip produces. The flip
// itself is already applied locally by the time the caller sees this;
// the result only says what to tell the service.
type ToggleResult struct {
	Completed bool
	XPDelta   int
	Topic     string
	Celebrate bool
}

// Ledger tracks which schedule slots are done, keyed by slot index.
// Indices are only meaningful against the current schedule, which is
// why structural schedule changes reset the ledger.
type Ledger struct {
	done map[int]bool
}

func NewLedger() *Ledger {
	return &Ledger{done: map[int]bool{}}
}

// Toggle flips a slot from its current local value and reports the
// log intent: completing awards XP, undoing sends it back with the
// topic prefixed so the history reads honestly.
func (l *Ledger) Toggle(index int, task string) ToggleResult {
	now := !l.done[index]
	l.done[index] = now
	if now {
		return ToggleResult{Completed: true, XPDelta: TaskCompleteXP, Topic: task, Celebrate: true}
	}
	return ToggleResult{Completed: false, XPDelta: -TaskCompleteXP, Topic: UndoPrefix + task}
}

func (l *Ledger) IsDone(index int) bool {
	return l.done[index]
}

// SetDone seeds a slot without producing an intent; used when a day
// loads from the calendar with completions already on record.
func (l *Ledger) SetDone(index int, done bool) {
	if done {
		l.done[index] = true
		return
	}
	delete(l.done, index)
}

func (l *Ledger) Reset() {
	l.done = map[int]bool{}
}

func (l *Ledger) DoneCount() int {
	n := 0
	for _, done := range l.done {
		if done {
			n++
		}
	}
	return n
}
