// Package service реализует бизнес-логику гостиничного сервиса:
// хранилище сущностей, индексы бронирований, проверку доступности и отчёты.
package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/hotel-desk/internal/model"
)

// Repository описывает контракт хранилища коллекций, используемый сервисом.
type Repository interface {
	Close() error
	LoadRooms() ([]model.Room, error)
	SaveRooms(rooms []model.Room) error
	LoadGuests() ([]model.Guest, error)
	SaveGuests(guests []model.Guest) error
	LoadReservations() ([]model.Reservation, error)
	SaveReservations(reservations []model.Reservation) error
	LoadPayments() ([]model.Payment, error)
	SavePayments(payments []model.Payment) error
	Backup(now time.Time) (string, error)
	SaveReport(report model.OccupancyReport) (string, error)
}

// Service владеет таблицами сущностей и индексами бронирований.
//
// Все изменения выполняются под одной эксклюзивной блокировкой, включая
// проверку доступности и вставку бронирования. После успешного изменения
// коллекция целиком сохраняется в хранилище. Ошибка сохранения логируется и
// не откатывает изменение в памяти: память и диск расходятся до следующего
// успешного сохранения этой коллекции.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time

	mu           sync.RWMutex
	rooms        map[string]model.Room
	guests       map[string]model.Guest
	reservations map[string]model.Reservation
	payments     map[string]model.Payment

	// индексы: номер -> бронирования, гость -> бронирования
	byRoom  map[string]map[string]struct{}
	byGuest map[string]map[string]struct{}
}

// NewService создаёт пустой сервис поверх указанного хранилища.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:         repo,
		logger:       logger,
		now:          time.Now,
		rooms:        make(map[string]model.Room),
		guests:       make(map[string]model.Guest),
		reservations: make(map[string]model.Reservation),
		payments:     make(map[string]model.Payment),
		byRoom:       make(map[string]map[string]struct{}),
		byGuest:      make(map[string]map[string]struct{}),
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Load заменяет таблицы содержимым хранилища и перестраивает индексы.
// Коллекция, которую не удалось прочитать, остаётся пустой; ошибки
// возвращаются вместе, обёрнутыми в ErrPersistence.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	rooms, err := s.repo.LoadRooms()
	if err != nil {
		s.logger.Warn("could not load rooms", zap.Error(err))
		errs = append(errs, err)
	}
	guests, err := s.repo.LoadGuests()
	if err != nil {
		s.logger.Warn("could not load guests", zap.Error(err))
		errs = append(errs, err)
	}
	reservations, err := s.repo.LoadReservations()
	if err != nil {
		s.logger.Warn("could not load reservations", zap.Error(err))
		errs = append(errs, err)
	}
	payments, err := s.repo.LoadPayments()
	if err != nil {
		s.logger.Warn("could not load payments", zap.Error(err))
		errs = append(errs, err)
	}

	s.rooms = indexBy(rooms, func(r model.Room) string { return r.ID })
	s.guests = indexBy(guests, func(g model.Guest) string { return g.ID })
	s.reservations = indexBy(reservations, func(r model.Reservation) string { return r.ID })
	s.payments = indexBy(payments, func(p model.Payment) string { return p.ID })
	s.rebuildIndexesLocked()

	s.logger.Info("data loaded",
		zap.Int("rooms", len(s.rooms)),
		zap.Int("guests", len(s.guests)),
		zap.Int("reservations", len(s.reservations)),
		zap.Int("payments", len(s.payments)),
	)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersistence, errors.Join(errs...))
	}
	return nil
}

// RebuildIndexes перестраивает индексы бронирований с нуля по текущим таблицам.
func (s *Service) RebuildIndexes() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rebuildIndexesLocked()
}

func (s *Service) rebuildIndexesLocked() {
	s.byRoom = make(map[string]map[string]struct{}, len(s.rooms))
	s.byGuest = make(map[string]map[string]struct{}, len(s.guests))

	for id := range s.rooms {
		s.byRoom[id] = make(map[string]struct{})
	}
	for id := range s.guests {
		s.byGuest[id] = make(map[string]struct{})
	}

	for id, res := range s.reservations {
		addToBucket(s.byRoom, res.RoomID, id)

		guestID, ok := s.guestForReservationLocked(res)
		if !ok {
			s.logger.Warn("reservation guest not resolved", zap.String("reservation_id", id), zap.String("guest_name", res.GuestName))
			continue
		}
		if res.GuestID == "" {
			// Записи без guestId связываются по полному имени один раз при загрузке.
			res.GuestID = guestID
			s.reservations[id] = res
		}
		addToBucket(s.byGuest, guestID, id)
	}
}

// guestForReservationLocked находит гостя бронирования: по GuestID, а для
// записей без него по совпадению полного имени.
func (s *Service) guestForReservationLocked(res model.Reservation) (string, bool) {
	if res.GuestID != "" {
		_, ok := s.guests[res.GuestID]
		return res.GuestID, ok
	}

	ids := make([]string, 0, len(s.guests))
	for id, g := range s.guests {
		if g.FullName() == res.GuestName {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", false
	}
	return slices.Min(ids), true
}

// Backup копирует файлы коллекций в каталог резервных копий.
// Блокировка на чтение гарантирует, что файлы не меняются во время копирования.
func (s *Service) Backup() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir, err := s.repo.Backup(s.now())
	if err != nil {
		s.logger.Error("failed to create backup", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.logger.Info("backup created", zap.String("dir", dir))
	return dir, nil
}

// RunAutoBackup создаёт резервную копию каждые interval, пока не отменён ctx.
func (s *Service) RunAutoBackup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("auto backup started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("auto backup stopped")
			return
		case <-ticker.C:
			_, _ = s.Backup()
		}
	}
}

func (s *Service) today() time.Time {
	return model.DateOf(s.now())
}

func (s *Service) persistRooms() {
	if err := s.repo.SaveRooms(s.sortedRoomsLocked()); err != nil {
		s.logger.Error("failed to save rooms", zap.Error(err))
	}
}

func (s *Service) persistGuests() {
	if err := s.repo.SaveGuests(s.sortedGuestsLocked()); err != nil {
		s.logger.Error("failed to save guests", zap.Error(err))
	}
}

func (s *Service) persistReservations() {
	if err := s.repo.SaveReservations(s.sortedReservationsLocked()); err != nil {
		s.logger.Error("failed to save reservations", zap.Error(err))
	}
}

func (s *Service) persistPayments() {
	if err := s.repo.SavePayments(s.sortedPaymentsLocked()); err != nil {
		s.logger.Error("failed to save payments", zap.Error(err))
	}
}

func (s *Service) sortedRoomsLocked() []model.Room {
	return sortRooms(mapValues(s.rooms))
}

func (s *Service) sortedGuestsLocked() []model.Guest {
	return sortGuests(mapValues(s.guests))
}

func (s *Service) sortedReservationsLocked() []model.Reservation {
	return sortReservations(mapValues(s.reservations))
}

func (s *Service) sortedPaymentsLocked() []model.Payment {
	return sortPayments(mapValues(s.payments))
}

func sortRooms(rooms []model.Room) []model.Room {
	slices.SortFunc(rooms, func(a, b model.Room) int {
		return cmp.Or(cmp.Compare(a.Number, b.Number), cmp.Compare(a.ID, b.ID))
	})
	return rooms
}

func sortGuests(guests []model.Guest) []model.Guest {
	slices.SortFunc(guests, func(a, b model.Guest) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return guests
}

func sortReservations(reservations []model.Reservation) []model.Reservation {
	slices.SortFunc(reservations, func(a, b model.Reservation) int {
		return cmp.Or(a.StartDate.Compare(b.StartDate), cmp.Compare(a.ID, b.ID))
	})
	return reservations
}

func sortPayments(payments []model.Payment) []model.Payment {
	slices.SortFunc(payments, func(a, b model.Payment) int {
		return cmp.Or(a.PaymentDate.Compare(b.PaymentDate), cmp.Compare(a.ID, b.ID))
	})
	return payments
}

func mapValues[K comparable, V any](m map[K]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func indexBy[V any](items []V, key func(V) string) map[string]V {
	m := make(map[string]V, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}

func addToBucket(index map[string]map[string]struct{}, key, reservationID string) {
	bucket, ok := index[key]
	if !ok {
		bucket = make(map[string]struct{})
		index[key] = bucket
	}
	bucket[reservationID] = struct{}{}
}

func removeFromBucket(index map[string]map[string]struct{}, key, reservationID string) {
	if bucket, ok := index[key]; ok {
		delete(bucket, reservationID)
	}
}
