package models

import (
	"strings"
	"time"
)

// TimetableSlot is one scheduled occurrence of a teaching.
type TimetableSlot struct {
	TeachingID int       `json:"teaching_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	RoomCodes  string    `json:"room_codes"`
	Notes      string    `json:"notes,omitempty"`
}

// Rooms splits the whitespace separated room field into codes, keeping order.
func (s TimetableSlot) Rooms() []string {
	return strings.Fields(s.RoomCodes)
}

type Room struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Floor     string   `json:"floor,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// RoomLookup resolves room codes.
type RoomLookup interface {
	LookupRoom(code string) (Room, bool)
}

// RoomIndex is a RoomLookup keyed by room code.
type RoomIndex map[string]Room

// NewRoomIndex indexes rooms by id; the first record wins on duplicates.
func NewRoomIndex(rooms []Room) RoomIndex {
	index := make(RoomIndex, len(rooms))
	for _, r := range rooms {
		if _, ok := index[r.ID]; !ok {
			index[r.ID] = r
		}
	}
	return index
}

func (i RoomIndex) LookupRoom(code string) (Room, bool) {
	r, ok := i[code]
	return r, ok
}

// ResolvedLecture is a slot inside the requested window with its location rendered.
type ResolvedLecture struct {
	TeachingID int       `json:"teaching_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Notes      string    `json:"notes,omitempty"`
	Location   string    `json:"location,omitempty"`
}

// LectureEvent pairs a lecture with the teaching it belongs to.
type LectureEvent struct {
	Teaching Teaching        `json:"teaching"`
	Lecture  ResolvedLecture `json:"lecture"`
}
