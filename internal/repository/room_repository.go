package repository

import (
	"context"

	"github.com/finedust/calendar-builder/internal/models"
)

type roomRow struct {
	Code      flexString `json:"aula_codice"`
	Name      flexString `json:"aula_nome"`
	Address   flexString `json:"aula_indirizzo"`
	Floor     flexString `json:"aula_piano"`
	Latitude  flexFloat  `json:"lat"`
	Longitude flexFloat  `json:"lon"`
}

// RoomRepository reads classrooms.
type RoomRepository struct {
	fetcher RecordFetcher
}

// NewRoomRepository creates a room repository.
func NewRoomRepository(fetcher RecordFetcher) *RoomRepository {
	return &RoomRepository{fetcher: fetcher}
}

// ListByCodes returns the rooms with the given codes.
func (r *RoomRepository) ListByCodes(ctx context.Context, codes []string) ([]models.Room, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	records, err := r.fetcher.FetchRecords(ctx, ResourceRooms,
		map[string]any{fieldRoomCode: codes}, nil, len(codes))
	if err != nil {
		return nil, err
	}
	rows, err := decodeRecords[roomRow](ResourceRooms, records)
	if err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, models.Room{
			ID:        string(row.Code),
			Name:      string(row.Name),
			Address:   string(row.Address),
			Floor:     string(row.Floor),
			Latitude:  row.Latitude.Ptr(),
			Longitude: row.Longitude.Ptr(),
		})
	}
	return rooms, nil
}
