// Package repository keeps the whole domain state — users, rooms,
// reservations and the server calendar — in memory, loaded once at startup
// and rewritten to two JSON documents after every mutating command.
package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/model"
)

// Store ties the repositories to their backing files. Mutating handlers
// call Commit after applying a change; there is no finer-grained
// persistence than rewriting both documents in full.
type Store struct {
	Users    *UserRepo
	Rooms    *RoomRepo
	Calendar *Calendar

	usersFile string
	roomsFile string
	log       *zap.Logger
}

// persistedRoom is the on-disk room shape. The reservation list lives under
// the "users" key, and capacity/isFull are derived from the server date at
// commit time (free beds today, and whether that is zero).
type persistedRoom struct {
	Number       string              `json:"number"`
	Price        int                 `json:"price"`
	MaxCapacity  int                 `json:"maxCapacity"`
	Capacity     int                 `json:"capacity"`
	IsFull       bool                `json:"isFull"`
	Reservations []model.Reservation `json:"users"`
}

// Open loads both documents and seeds the calendar with today's wall-clock
// date. Any read or parse failure aborts startup.
func Open(usersFile, roomsFile string, log *zap.Logger) (*Store, error) {
	s := &Store{
		Calendar:  NewCalendar(model.Today()),
		usersFile: usersFile,
		roomsFile: roomsFile,
		log:       log,
	}

	users, err := loadUsers(usersFile)
	if err != nil {
		return nil, err
	}
	s.Users = NewUserRepo(users)

	rooms, err := loadRooms(roomsFile)
	if err != nil {
		return nil, err
	}
	s.Rooms = NewRoomRepo(rooms)

	log.Info("state loaded",
		zap.Int("users", len(users)),
		zap.Int("rooms", len(rooms)),
		zap.String("server_date", s.Calendar.Today().String()))
	return s, nil
}

func loadUsers(path string) ([]*model.User, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open users file: %w", err)
	}
	var users []*model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	return users, nil
}

func loadRooms(path string) (map[string]*model.Room, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open rooms file: %w", err)
	}
	var persisted []persistedRoom
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return nil, fmt.Errorf("parse rooms file: %w", err)
	}
	rooms := make(map[string]*model.Room, len(persisted))
	for _, p := range persisted {
		room := &model.Room{
			Number:       p.Number,
			Price:        p.Price,
			MaxCapacity:  p.MaxCapacity,
			Reservations: p.Reservations,
		}
		// Surrogate ids are not persisted; assign them on load.
		for i := range room.Reservations {
			room.Reservations[i].ID = uuid.NewString()
		}
		if room.Reservations == nil {
			room.Reservations = []model.Reservation{}
		}
		rooms[p.Number] = room
	}
	return rooms, nil
}

// Commit rewrites both documents. Called after every mutating command;
// failures are logged and surfaced, but the in-memory state stays
// authoritative either way.
func (s *Store) Commit() error {
	if err := s.commitUsers(); err != nil {
		s.log.Error("commit users failed", zap.Error(err))
		return err
	}
	if err := s.commitRooms(); err != nil {
		s.log.Error("commit rooms failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) commitUsers() error {
	raw, err := json.MarshalIndent(s.Users.Users(), "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.usersFile, raw, 0o644)
}

func (s *Store) commitRooms() error {
	today := s.Calendar.Today()
	persisted := make([]persistedRoom, 0)
	for _, number := range s.Rooms.Numbers() {
		room, _ := s.Rooms.Get(number)
		free := room.FreeBeds(today)
		persisted = append(persisted, persistedRoom{
			Number:       room.Number,
			Price:        room.Price,
			MaxCapacity:  room.MaxCapacity,
			Capacity:     free,
			IsFull:       free == 0,
			Reservations: room.Reservations,
		})
	}
	raw, err := json.MarshalIndent(persisted, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.roomsFile, raw, 0o644)
}
