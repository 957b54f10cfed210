package ecs

import "container/heap"

// TimerID identifies a scheduled callback.
type TimerID uint64

// TimerFunc runs when a timer comes due.
type TimerFunc func(w *World)

type timer struct {
	id    TimerID
	at    float64
	seq   uint64
	owner Entity
	tag   string
	fn    TimerFunc
	index int
}

// timerQueue is a min-heap on (at, seq), so timers due on the same tick fire
// in scheduling order.
type timerQueue struct {
	items []*timer
	byID  map[TimerID]*timer
	seq   uint64
}

func newTimerQueue() timerQueue {
	return timerQueue{byID: make(map[TimerID]*timer)}
}

func (q *timerQueue) Len() int { return len(q.items) }

func (q *timerQueue) Less(i, j int) bool {
	if q.items[i].at != q.items[j].at {
		return q.items[i].at < q.items[j].at
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *timerQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(q.items)
	q.items = append(q.items, t)
}

func (q *timerQueue) Pop() any {
	n := len(q.items)
	t := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	t.index = -1
	return t
}

// Schedule queues fn to run delay seconds from now. A timer owned by an
// entity is dropped if that entity is destroyed before the timer comes due;
// pass a zero owner for timers that belong to the world itself.
func (w *World) Schedule(owner Entity, delay float64, tag string, fn TimerFunc) TimerID {
	if w == nil || fn == nil {
		return 0
	}
	if w.timers.byID == nil {
		w.timers = newTimerQueue()
	}
	if delay < 0 {
		delay = 0
	}
	w.timers.seq++
	t := &timer{
		id:    TimerID(w.timers.seq),
		at:    w.now + delay,
		seq:   w.timers.seq,
		owner: owner,
		tag:   tag,
		fn:    fn,
	}
	heap.Push(&w.timers, t)
	w.timers.byID[t.id] = t
	return t.id
}

// CancelTimer removes a pending timer. It reports whether the timer was
// still pending.
func (w *World) CancelTimer(id TimerID) bool {
	if w == nil {
		return false
	}
	t, ok := w.timers.byID[id]
	if !ok {
		return false
	}
	delete(w.timers.byID, id)
	if t.index >= 0 {
		heap.Remove(&w.timers, t.index)
	}
	return true
}

// PendingTimers returns how many timers owned by owner with the given tag are
// queued. An empty tag matches every tag.
func (w *World) PendingTimers(owner Entity, tag string) int {
	if w == nil {
		return 0
	}
	n := 0
	for _, t := range w.timers.items {
		if t.owner == owner && (tag == "" || t.tag == tag) {
			n++
		}
	}
	return n
}

// RunTimers fires every timer due at or before the current time and returns
// how many ran. Timers scheduled by a callback with no delay fire in the same
// pass.
func (w *World) RunTimers() int {
	if w == nil {
		return 0
	}
	fired := 0
	for w.timers.Len() > 0 {
		next := w.timers.items[0]
		if next.at > w.now {
			break
		}
		heap.Pop(&w.timers)
		delete(w.timers.byID, next.id)
		if next.owner != 0 && !w.IsAlive(next.owner) {
			continue
		}
		next.fn(w)
		fired++
	}
	return fired
}
