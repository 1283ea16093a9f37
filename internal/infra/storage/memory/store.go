// Package memory хранилище в памяти с теми же контрактами, что и PostgreSQL репозитории.
// Используется в режиме разработки (database.driver = "memory") и в тестах движка распределения.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/EffiQ-BookingService/internal/domain"
	"github.com/m04kA/EffiQ-BookingService/internal/infra/storage/storageerr"
)

// Store общее состояние всех репозиториев.
// Каждая операция выполняется целиком под одним мьютексом, поэтому
// условные изменения (reserve, debit) атомарны так же, как условный UPDATE.
// Транзакции сериализуются через tx: пока транзакция не завершилась,
// её изменения не видны операциям вне неё.
type Store struct {
	tx  sync.RWMutex
	mu  sync.Mutex
	now func() time.Time

	seq int64

	slots         map[string]*slotRecord
	bookings      map[int64]*domain.Booking
	waitlist      map[int64]*domain.WaitlistEntry
	accounts      map[int64]*domain.UserAccount
	services      map[int64]*domain.Service
	subServices   map[int64]*domain.SubService
	notifications map[int64]*domain.Notification
}

type slotRecord struct {
	slot domain.TimeSlot
	seq  int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		now:           time.Now,
		slots:         make(map[string]*slotRecord),
		bookings:      make(map[int64]*domain.Booking),
		waitlist:      make(map[int64]*domain.WaitlistEntry),
		accounts:      make(map[int64]*domain.UserAccount),
		services:      make(map[int64]*domain.Service),
		subServices:   make(map[int64]*domain.SubService),
		notifications: make(map[int64]*domain.Notification),
	}
}

// WithClock подменяет источник времени (для тестов)
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Slots возвращает репозиторий слотов
func (s *Store) Slots() *Slots { return &Slots{s: s} }

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *Bookings { return &Bookings{s: s} }

// Waitlist возвращает репозиторий листа ожидания
func (s *Store) Waitlist() *Waitlist { return &Waitlist{s: s} }

// Accounts возвращает репозиторий балансов
func (s *Store) Accounts() *Accounts { return &Accounts{s: s} }

// Catalog возвращает репозиторий каталога
func (s *Store) Catalog() *Catalog { return &Catalog{s: s} }

// Notifications возвращает репозиторий уведомлений
func (s *Store) Notifications() *Notifications { return &Notifications{s: s} }

// TxManager возвращает менеджер транзакций
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// begin захватывает мьютекс, предварительно проверив контекст.
// Вне транзакции дополнительно берётся разделяемая блокировка tx.
// Истёкший контекст превращается в domain.ErrStorageTimeout.
func (s *Store) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory: %w", storageerr.Classify(err))
	}
	if !inTx(ctx) {
		s.tx.RLock()
	}
	s.mu.Lock()
	return nil
}

// end парный к begin
func (s *Store) end(ctx context.Context) {
	s.mu.Unlock()
	if !inTx(ctx) {
		s.tx.RUnlock()
	}
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(undoKey{}).(*undoLog)
	return ok
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// record добавляет компенсирующее действие в журнал транзакции из контекста.
// Вызывается под s.mu; само действие выполняется тоже под s.mu.
func (s *Store) record(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		log.add(undo)
	}
}

func slotID(key domain.SlotKey) string {
	return fmt.Sprintf("%d|%s|%s", key.SubServiceID, key.Date.Format(domain.DateFormat), key.Time)
}

type undoKey struct{}

type undoLog struct {
	mu  sync.Mutex
	ops []func()
}

func (l *undoLog) add(op func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

// TxManager выполняет функцию как одну логическую единицу:
// при ошибке все изменения, сделанные через Store, откатываются в обратном порядке.
// Транзакция держит tx монопольно до фиксации или отката.
type TxManager struct {
	s *Store
}

// Do выполняет fn; вложенные вызовы используют журнал внешнего.
// Внутри fn к хранилищу обращаются только с переданным контекстом.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory: %w", storageerr.Classify(err))
	}

	m.s.tx.Lock()
	defer m.s.tx.Unlock()

	log := &undoLog{}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(log)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		m.rollback(log)
		return err
	}

	return nil
}

func (m *TxManager) rollback(log *undoLog) {
	log.mu.Lock()
	ops := log.ops
	log.ops = nil
	log.mu.Unlock()

	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := len(ops) - 1; i >= 0; i-- {
		ops[i]()
	}
}
