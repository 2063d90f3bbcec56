package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

type fakeTxKey struct{}

type fakeTx struct {
	locked []string
	writes []domain.PaidUpdate
}

// fakeOrderRepo emulates row locks with SKIP LOCKED semantics and the
// partial unique index on transaction_id. Writes become visible on commit.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	locked map[string]bool

	lockErr    error
	getErr     error
	markErr    error
	markCalls  int
	afterLock  func()
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{
		orders: make(map[string]*domain.Order),
		locked: make(map[string]bool),
	}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &fakeTx{}
	err := fn(context.WithValue(ctx, fakeTxKey{}, tx))

	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		for _, w := range tx.writes {
			o := r.orders[w.OrderID]
			start, end := w.StartDate, w.EndDate
			o.Status = domain.StatusPaid
			o.TransactionID = w.TransactionID
			o.PaymentMethod = w.PaymentMethod
			o.StartDate = &start
			o.EndDate = &end
		}
	}
	for _, id := range tx.locked {
		delete(r.locked, id)
	}
	return err
}

func (r *fakeOrderRepo) GetOrderForUpdateSkipLocked(ctx context.Context, orderID string) (*domain.Order, error) {
	tx, _ := ctx.Value(fakeTxKey{}).(*fakeTx)
	if tx == nil {
		return nil, errors.New("lock outside transaction")
	}

	r.mu.Lock()
	if r.lockErr != nil {
		r.mu.Unlock()
		return nil, r.lockErr
	}
	o, ok := r.orders[orderID]
	if !ok {
		r.mu.Unlock()
		return nil, domain.ErrOrderNotFound
	}
	if r.locked[orderID] {
		r.mu.Unlock()
		return nil, domain.ErrLockUnavailable
	}
	r.locked[orderID] = true
	tx.locked = append(tx.locked, orderID)
	cp := *o
	hook := r.afterLock
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &cp, nil
}

func (r *fakeOrderRepo) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) MarkOrderPaid(ctx context.Context, update domain.PaidUpdate) error {
	tx, _ := ctx.Value(fakeTxKey{}).(*fakeTx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.markCalls++
	if r.markErr != nil {
		return r.markErr
	}
	o, ok := r.orders[update.OrderID]
	if !ok || o.Status != domain.StatusPending {
		return domain.ErrStatusChanged
	}
	for id, other := range r.orders {
		if id != update.OrderID && other.TransactionID == update.TransactionID {
			return domain.ErrDuplicateTransaction
		}
	}
	tx.writes = append(tx.writes, update)
	return nil
}

func (r *fakeOrderRepo) order(id string) domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.orders[id]
}

func (r *fakeOrderRepo) lock(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked[id] = true
}

type fakeMembershipRepo struct {
	memberships map[string]*domain.Membership
	err         error
}

func (r *fakeMembershipRepo) GetMembershipByID(ctx context.Context, membershipID string) (*domain.Membership, error) {
	if r.err != nil {
		return nil, r.err
	}
	m, ok := r.memberships[membershipID]
	if !ok {
		return nil, domain.ErrMembershipNotFound
	}
	return m, nil
}

type fakeReplayStore struct {
	mu      sync.Mutex
	markers map[string]bool
	err     error
}

func newFakeReplayStore() *fakeReplayStore {
	return &fakeReplayStore{markers: make(map[string]bool)}
}

func (s *fakeReplayStore) MarkIfAbsent(ctx context.Context, transactionID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.markers[transactionID] {
		return false, nil
	}
	s.markers[transactionID] = true
	return true, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	paid   []domain.OrderPaidEvent
	alerts []domain.PaymentAlert
	err    error
}

func (p *fakePublisher) PublishOrderPaid(ctx context.Context, event domain.OrderPaidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paid = append(p.paid, event)
	return p.err
}

func (p *fakePublisher) PublishAlert(ctx context.Context, alert domain.PaymentAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
	return p.err
}

type fakeNotificationLogs struct {
	mu      sync.Mutex
	entries []*domain.NotificationLog
	err     error
}

func (l *fakeNotificationLogs) SaveNotificationLog(ctx context.Context, entry *domain.NotificationLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return l.err
}

func (l *fakeNotificationLogs) last() *domain.NotificationLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return nil
	}
	return l.entries[len(l.entries)-1]
}
