package service

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/mmeshcher/hotel-desk/internal/model"
	"github.com/mmeshcher/hotel-desk/internal/validation"
)

// AddRoom добавляет номер и строит для него индекс бронирований.
func (s *Service) AddRoom(room model.Room) (model.Room, error) {
	if !validation.IsValidID(room.ID) {
		return model.Room{}, fmt.Errorf("%w: invalid room id %q", ErrValidation, room.ID)
	}
	if !validation.IsValidRoomNumber(room.Number) {
		return model.Room{}, fmt.Errorf("%w: invalid room number %q", ErrValidation, room.Number)
	}
	if !validation.IsValidCapacity(room.Capacity) {
		return model.Room{}, fmt.Errorf("%w: capacity must be %d-%d", ErrValidation, validation.MinCapacity, validation.MaxCapacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return model.Room{}, fmt.Errorf("%w: room %s already exists", ErrDuplicateID, room.ID)
	}

	s.rooms[room.ID] = room
	// бронирования ранее удалённого номера с тем же id снова учитываются
	bucket := make(map[string]struct{})
	for resID, res := range s.reservations {
		if res.RoomID == room.ID {
			bucket[resID] = struct{}{}
		}
	}
	s.byRoom[room.ID] = bucket
	s.persistRooms()

	s.logger.Info("room added", zap.String("room_id", room.ID), zap.String("number", room.Number), zap.Int("capacity", room.Capacity))
	return room, nil
}

// RemoveRoom удаляет номер, если у него нет бронирований, заканчивающихся после сегодняшнего дня.
// Возвращает false, если номер не найден.
func (s *Service) RemoveRoom(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	for resID := range s.byRoom[id] {
		if res, ok := s.reservations[resID]; ok && res.EndDate.After(today) {
			return false, fmt.Errorf("%w: room %s, reservation %s", ErrRoomInUse, id, resID)
		}
	}

	room, ok := s.rooms[id]
	if !ok {
		return false, nil
	}

	delete(s.rooms, id)
	delete(s.byRoom, id)
	s.persistRooms()

	s.logger.Info("room removed", zap.String("room_id", room.ID), zap.String("number", room.Number))
	return true, nil
}

// GetRoom возвращает номер по идентификатору.
func (s *Service) GetRoom(id string) (model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return model.Room{}, fmt.Errorf("%w: room %s", ErrNotFound, id)
	}
	return room, nil
}

// ListRooms возвращает все номера, отсортированные по номеру комнаты.
func (s *Service) ListRooms() []model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedRoomsLocked()
}

// SearchRoomsByCapacity возвращает номера вместимостью не меньше minCapacity по возрастанию вместимости.
func (s *Service) SearchRoomsByCapacity(minCapacity int) []model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []model.Room
	for _, room := range s.sortedRoomsLocked() {
		if room.Capacity >= minCapacity {
			res = append(res, room)
		}
	}
	slices.SortStableFunc(res, func(a, b model.Room) int {
		return cmp.Compare(a.Capacity, b.Capacity)
	})
	return res
}
