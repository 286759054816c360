// Package repository содержит хранение коллекций гостиницы в JSON-файлах на диске.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mmeshcher/hotel-desk/internal/model"
)

// Имена файлов коллекций в каталоге данных.
const (
	RoomsFile        = "rooms.json"
	GuestsFile       = "guests.json"
	ReservationsFile = "reservations.json"
	PaymentsFile     = "payments.json"
)

// ErrInvalidRecord возвращается, если запись в файле не удаётся преобразовать в сущность.
var ErrInvalidRecord = errors.New("invalid record")

const backupStampLayout = "20060102_150405"

// FileRepository хранит каждую коллекцию целиком в отдельном JSON-файле.
// Каждое сохранение переписывает файл полностью через временный файл и rename.
type FileRepository struct {
	dataDir   string
	backupDir string
	reportDir string
}

// NewFileRepository создаёт репозиторий и каталог данных, если его нет.
func NewFileRepository(dataDir, backupDir, reportDir string) (*FileRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRepository{
		dataDir:   dataDir,
		backupDir: backupDir,
		reportDir: reportDir,
	}, nil
}

// Close освобождает ресурсы репозитория.
func (r *FileRepository) Close() error {
	return nil
}

// LoadRooms читает номера. Отсутствующий файл означает пустую коллекцию.
func (r *FileRepository) LoadRooms() ([]model.Room, error) {
	return load(r.path(RoomsFile), fromRoomRecord)
}

// SaveRooms перезаписывает файл номеров.
func (r *FileRepository) SaveRooms(rooms []model.Room) error {
	return save(r.path(RoomsFile), rooms, toRoomRecord)
}

// LoadGuests читает гостей.
func (r *FileRepository) LoadGuests() ([]model.Guest, error) {
	return load(r.path(GuestsFile), fromGuestRecord)
}

// SaveGuests перезаписывает файл гостей.
func (r *FileRepository) SaveGuests(guests []model.Guest) error {
	return save(r.path(GuestsFile), guests, toGuestRecord)
}

// LoadReservations читает бронирования.
func (r *FileRepository) LoadReservations() ([]model.Reservation, error) {
	return load(r.path(ReservationsFile), fromReservationRecord)
}

// SaveReservations перезаписывает файл бронирований.
func (r *FileRepository) SaveReservations(reservations []model.Reservation) error {
	return save(r.path(ReservationsFile), reservations, toReservationRecord)
}

// LoadPayments читает платежи.
func (r *FileRepository) LoadPayments() ([]model.Payment, error) {
	return load(r.path(PaymentsFile), fromPaymentRecord)
}

// SavePayments перезаписывает файл платежей.
func (r *FileRepository) SavePayments(payments []model.Payment) error {
	return save(r.path(PaymentsFile), payments, toPaymentRecord)
}

// Backup копирует файлы коллекций в подкаталог с отметкой времени now и возвращает его путь.
// Отсутствующие файлы пропускаются.
func (r *FileRepository) Backup(now time.Time) (string, error) {
	dir := filepath.Join(r.backupDir, now.Format(backupStampLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	for _, name := range []string{RoomsFile, GuestsFile, ReservationsFile, PaymentsFile} {
		err := copyFile(r.path(name), filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("backup %s: %w", name, err)
		}
	}

	return dir, nil
}

// SaveReport сохраняет отчёт о загрузке в каталог отчётов и возвращает путь к файлу.
func (r *FileRepository) SaveReport(report model.OccupancyReport) (string, error) {
	if err := os.MkdirAll(r.reportDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("occupancy_%s.json", report.GeneratedAt.Format(backupStampLayout))
	path := filepath.Join(r.reportDir, name)

	data, err := json.MarshalIndent(toReportRecord(report), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (r *FileRepository) path(name string) string {
	return filepath.Join(r.dataDir, name)
}

func load[T, R any](path string, convert func(R) (T, error)) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []R
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	items := make([]T, 0, len(records))
	for _, rec := range records {
		item, err := convert(rec)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func save[T, R any](path string, items []T, convert func(T) R) error {
	records := make([]R, 0, len(items))
	for _, item := range items {
		records = append(records, convert(item))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
