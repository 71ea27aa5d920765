package analysis

import (
	"context"
	"fmt"
	"sync"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/repository"
)

// callLog records collaborator calls in order so tests can assert sequencing
// across fakes.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

type stubStrategy struct {
	name      string
	customers []entity.Customer
	err       error
	log       *callLog
	products  []*entity.Product
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Analyze(ctx context.Context, product *entity.Product) ([]entity.Customer, error) {
	s.products = append(s.products, product)
	if s.log != nil {
		s.log.add("analyze:%s", s.name)
	}
	return s.customers, s.err
}

type recordingHandler struct {
	errs []error
	log  *callLog
}

func (h *recordingHandler) Handle(ctx context.Context, err error) {
	h.errs = append(h.errs, err)
	if h.log != nil {
		h.log.add("handle")
	}
}

type fakeStore struct {
	products   map[int64]*entity.Product
	findErr    error
	persistErr error
	// failPersistAt fails the nth PersistOffer call (1-based) with persistErr.
	failPersistAt int
	persisted     []*entity.Offer
	nextID        int64
	log           *callLog
}

func newFakeStore(log *callLog, products ...*entity.Product) *fakeStore {
	m := make(map[int64]*entity.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeStore{products: m, log: log}
}

func (s *fakeStore) FindProduct(ctx context.Context, id int64) (*entity.Product, error) {
	s.log.add("find:%d", id)
	if s.findErr != nil {
		return nil, s.findErr
	}
	p, ok := s.products[id]
	if !ok {
		return nil, &repository.LookupError{Kind: "product", ID: id, Err: entity.ErrNotFound}
	}
	return p, nil
}

func (s *fakeStore) PersistOffer(ctx context.Context, offer *entity.Offer) error {
	attempt := len(s.persisted) + 1
	if s.persistErr != nil && (s.failPersistAt == 0 || s.failPersistAt == attempt) {
		s.log.add("persist-failed:%d", offer.Customer.ID)
		return s.persistErr
	}
	s.nextID++
	offer.ID = s.nextID
	s.persisted = append(s.persisted, offer)
	s.log.add("persist:%d", offer.Customer.ID)
	return nil
}

type fakeAnnouncer struct {
	sent    []*entity.Offer
	sendErr error
	log     *callLog
}

func (a *fakeAnnouncer) Send(ctx context.Context, offer *entity.Offer) error {
	if a.sendErr != nil {
		a.log.add("send-failed:%d", offer.Customer.ID)
		return a.sendErr
	}
	a.sent = append(a.sent, offer)
	a.log.add("send:%d", offer.Customer.ID)
	return nil
}
