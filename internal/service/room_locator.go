package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

// roomSeparator joins alternative rooms of the same slot ("OR").
const roomSeparator = " OPPURE "

// LocateRooms renders the location of a slot from its whitespace separated room codes.
// Each room contributes its title-cased name followed by either its coordinates
// or its floor and address. An unknown code is ErrUnresolvedRoom.
func LocateRooms(roomCodes string, rooms models.RoomLookup, useCoordinates bool) (string, error) {
	codes := strings.Fields(roomCodes)
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		room, ok := rooms.LookupRoom(code)
		if !ok {
			return "", appErrors.Clone(appErrors.ErrUnresolvedRoom, fmt.Sprintf("room %q not found", code))
		}
		parts = append(parts, describeRoom(room, useCoordinates))
	}
	return strings.Join(parts, roomSeparator), nil
}

func describeRoom(room models.Room, useCoordinates bool) string {
	var b strings.Builder
	b.WriteString(titleCase(room.Name))

	if useCoordinates {
		// latitude and longitude are published together
		if room.Latitude != nil {
			fmt.Fprintf(&b, " - %s %s", formatCoordinate(room.Latitude), formatCoordinate(room.Longitude))
		}
		return b.String()
	}

	if room.Floor == "" && room.Address == "" {
		return b.String()
	}
	b.WriteString(" -")
	if room.Floor != "" {
		b.WriteString(" " + room.Floor)
	}
	if room.Address != "" {
		b.WriteString(" in " + strings.ReplaceAll(room.Address, ", ", " "))
	}
	return b.String()
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
