/*
identity.go - Deterministic identity for not-yet-persisted occurrences

PURPOSE:
  Lets any part of the system reference a virtual occurrence by value,
  with no storage round-trip, and recover its coordinates later without a
  lookup table. The ID encodes (classroom, date, start time) directly:

      virtual-<classroom>-<YYYY-MM-DD>-<HH:MM>

  The same triple always yields the same ID and distinct triples never
  collide; the Materializer's de-duplication depends on both properties.

PARSING:
  The date and time components have fixed width, so ParseVirtualID anchors
  on the tail of the string instead of splitting on the delimiter. That
  keeps classroom identifiers containing '-' (UUIDs) round-trippable; the
  one hard requirement is that a classroom ID never ends in something that
  itself looks like "-YYYY-MM-DD-HH:MM", which holds for UUIDs.
*/
package schedule

import "strings"

const virtualPrefix = "virtual-"

// coordinate tail: "-" + date (10) + "-" + time (5)
const virtualTailLen = 1 + 10 + 1 + 5

// VirtualID builds the deterministic identifier for an occurrence.
func VirtualID(classroomID ClassroomID, date Date, start ClockTime) string {
	return virtualPrefix + string(classroomID) + "-" + date.String() + "-" + start.String()
}

// IsVirtualID is the cheap prefix check callers use to decide whether an
// occurrence must be materialized before acting on it.
func IsVirtualID(id string) bool {
	return strings.HasPrefix(id, virtualPrefix)
}

// ParseVirtualID recovers the coordinates encoded in a virtual ID.
// Returns ok=false for anything that is not a well-formed virtual ID.
func ParseVirtualID(id string) (classroomID ClassroomID, date Date, start ClockTime, ok bool) {
	if !IsVirtualID(id) {
		return "", Date{}, ClockTime{}, false
	}
	body := id[len(virtualPrefix):]
	if len(body) <= virtualTailLen {
		return "", Date{}, ClockTime{}, false
	}

	classroom := body[:len(body)-virtualTailLen]
	tail := body[len(body)-virtualTailLen:]
	if tail[0] != '-' || tail[11] != '-' {
		return "", Date{}, ClockTime{}, false
	}

	d, err := ParseDate(tail[1:11])
	if err != nil {
		return "", Date{}, ClockTime{}, false
	}
	c, err := ParseClockTime(tail[12:])
	if err != nil {
		return "", Date{}, ClockTime{}, false
	}
	return ClassroomID(classroom), d, c, true
}

// OccurrenceFromID rebuilds a VirtualOccurrence from its ID. The end time
// is not encoded in the ID and is left zero; callers that need it must
// carry it alongside.
func OccurrenceFromID(id string) (VirtualOccurrence, bool) {
	classroom, date, start, ok := ParseVirtualID(id)
	if !ok {
		return VirtualOccurrence{}, false
	}
	return VirtualOccurrence{
		ID:          id,
		ClassroomID: classroom,
		Date:        date,
		StartTime:   start,
	}, true
}
