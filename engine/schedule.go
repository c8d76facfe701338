package engine

type spawnEntry struct {
	tick  uint64
	index int
}

// SpawnSchedule is the staged activation queue, ordered by (tick, index)
// Consumed as simulated ticks advance; there are no wall-clock timers
type SpawnSchedule struct {
	entries []spawnEntry
	next    int
}

// NewSpawnSchedule schedules index i at base + startDelay + i*interval
// Ticks grow with the index, so construction order is already the fire order
func NewSpawnSchedule(base, startDelay, interval uint64, count int) *SpawnSchedule {
	s := &SpawnSchedule{entries: make([]spawnEntry, count)}
	for i := range s.entries {
		s.entries[i] = spawnEntry{
			tick:  base + startDelay + uint64(i)*interval,
			index: i,
		}
	}
	return s
}

// Due pops every entry scheduled at or before now, appending indices to dst
func (s *SpawnSchedule) Due(now uint64, dst []int) []int {
	for s.next < len(s.entries) && s.entries[s.next].tick <= now {
		dst = append(dst, s.entries[s.next].index)
		s.next++
	}
	return dst
}

// Started reports whether at least one entry has fired
func (s *SpawnSchedule) Started() bool {
	return s.next > 0
}

// Remaining is the number of entries not yet fired
func (s *SpawnSchedule) Remaining() int {
	return len(s.entries) - s.next
}

// Done reports whether every entry has fired
func (s *SpawnSchedule) Done() bool {
	return s.next >= len(s.entries)
}

// NextTick returns the tick of the next pending entry
func (s *SpawnSchedule) NextTick() (uint64, bool) {
	if s.Done() {
		return 0, false
	}
	return s.entries[s.next].tick, true
}
