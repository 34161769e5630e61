package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finedust/calendar-builder/internal/models"
	appErrors "github.com/finedust/calendar-builder/pkg/errors"
)

func floatPtr(v float64) *float64 {
	return &v
}

func testRooms() models.RoomIndex {
	return models.NewRoomIndex([]models.Room{
		{ID: "A", Name: "aula a", Floor: "Piano terra", Address: "Via Zamboni, 33, Bologna", Latitude: floatPtr(44.4968), Longitude: floatPtr(11.3527)},
		{ID: "B", Name: "aula b", Floor: "Primo piano"},
		{ID: "C", Name: "AULA MAGNA"},
	})
}

func TestLocateRoomsJoinsAlternatives(t *testing.T) {
	rooms := models.NewRoomIndex([]models.Room{{ID: "A", Name: "aula a"}, {ID: "B", Name: "aula b"}})

	got, err := LocateRooms("A B", rooms, false)
	require.NoError(t, err)
	assert.Equal(t, "Aula A OPPURE Aula B", got)
}

func TestLocateRoomsFloorAndAddress(t *testing.T) {
	got, err := LocateRooms("A", testRooms(), false)
	require.NoError(t, err)
	assert.Equal(t, "Aula A - Piano terra in Via Zamboni 33 Bologna", got)

	got, err = LocateRooms(" B\tC ", testRooms(), false)
	require.NoError(t, err)
	assert.Equal(t, "Aula B - Primo piano OPPURE Aula Magna", got)
}

func TestLocateRoomsCoordinates(t *testing.T) {
	got, err := LocateRooms("A B", testRooms(), true)
	require.NoError(t, err)
	assert.Equal(t, "Aula A - 44.4968 11.3527 OPPURE Aula B", got)
}

func TestLocateRoomsEmptyField(t *testing.T) {
	got, err := LocateRooms("", testRooms(), false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocateRoomsUnknownCode(t *testing.T) {
	_, err := LocateRooms("A Z", testRooms(), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnresolvedRoom))
}

func TestLocateRoomsCapitalisesAfterApostrophe(t *testing.T) {
	rooms := models.NewRoomIndex([]models.Room{{ID: "M", Name: "L'AULA MAGNA"}})

	got, err := LocateRooms("M", rooms, false)
	require.NoError(t, err)
	assert.Equal(t, "L'Aula Magna", got)
	assert.Equal(t, "D'Angelo Maria", titleCase("D'ANGELO MARIA"))
}
