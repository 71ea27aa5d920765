package analysis

import (
	"context"
	"errors"
	"testing"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/repository"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testProduct = &entity.Product{ID: 10, Name: "Kayak", Category: "outdoor", Price: decimal.NewFromInt(500), Active: true}
	customerOne = entity.NewCustomer(1, "test", decimal.NewFromInt(2))
	customerTwo = entity.NewCustomer(2, "second", decimal.NewFromInt(900))
)

func TestFindInterestingCustomers_FallsBackAfterFailure(t *testing.T) {
	failure := NewCannotInterpret("rules", testProduct.ID, errors.New("no rule for category"))
	first := &stubStrategy{name: "rules", err: failure}
	second := &stubStrategy{name: "credit", customers: []entity.Customer{customerOne}}
	handler := &recordingHandler{}

	svc := NewService([]Strategy{first, second}, newFakeStore(&callLog{}), &fakeAnnouncer{}, handler)

	got, err := svc.FindInterestingCustomers(context.Background(), testProduct)
	require.NoError(t, err)

	require.Len(t, second.products, 1)
	assert.Same(t, testProduct, second.products[0], "later strategy should receive the same product")

	require.Len(t, handler.errs, 1)
	assert.Same(t, failure, handler.errs[0], "handler should receive the exact failure instance")
	assert.Len(t, got, 1)
}

func TestFindInterestingCustomers_StopsAtFirstSuccess(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		first := &stubStrategy{name: "first", customers: []entity.Customer{customerOne}}
		strategies := []Strategy{first}
		var rest []*stubStrategy
		for i := 1; i < n; i++ {
			s := &stubStrategy{name: "later"}
			rest = append(rest, s)
			strategies = append(strategies, s)
		}
		handler := &recordingHandler{}

		svc := NewService(strategies, newFakeStore(&callLog{}), &fakeAnnouncer{}, handler)
		_, err := svc.FindInterestingCustomers(context.Background(), testProduct)
		require.NoError(t, err)

		assert.Len(t, first.products, 1)
		for _, s := range rest {
			assert.Empty(t, s.products, "strategies after the first success must not be invoked")
		}
		assert.Empty(t, handler.errs)
	}
}

func TestFindInterestingCustomers_ReturnsStrategyOutputUnchanged(t *testing.T) {
	want := []entity.Customer{customerOne, customerTwo}
	svc := NewService([]Strategy{&stubStrategy{name: "credit", customers: want}}, newFakeStore(&callLog{}), &fakeAnnouncer{}, nil)

	got, err := svc.FindInterestingCustomers(context.Background(), testProduct)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "test", got[0].Name)
	assert.True(t, got[0].Credit.Equal(decimal.NewFromInt(2)))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("customers mismatch (-want +got):\n%s", diff)
	}
}

func TestFindInterestingCustomers_AllStrategiesFail(t *testing.T) {
	errA := NewAnalysisFailed("a", testProduct.ID, errors.New("timeout"))
	errB := errors.New("plain error from a third-party strategy")
	handler := &recordingHandler{}

	svc := NewService([]Strategy{
		&stubStrategy{name: "a", err: errA},
		&stubStrategy{name: "b", err: errB},
	}, newFakeStore(&callLog{}), &fakeAnnouncer{}, handler)

	got, err := svc.FindInterestingCustomers(context.Background(), testProduct)
	require.NoError(t, err, "strategy failures must not reach the caller")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.Len(t, handler.errs, 2)
	assert.Same(t, errA, handler.errs[0])
	assert.Equal(t, errB, handler.errs[1])
}

func TestFindInterestingCustomers_NoStrategies(t *testing.T) {
	svc := NewService(nil, newFakeStore(&callLog{}), &fakeAnnouncer{}, nil)

	got, err := svc.FindInterestingCustomers(context.Background(), testProduct)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindInterestingCustomers_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := &stubStrategy{name: "first", err: errors.New("boom")}
	second := &stubStrategy{name: "second", customers: []entity.Customer{customerOne}}
	handler := &recordingHandler{}
	// Cancel from inside the handler so the check between attempts trips.
	svc := NewService([]Strategy{first, second}, newFakeStore(&callLog{}), &fakeAnnouncer{},
		FailureHandlerFunc(func(ctx context.Context, err error) {
			handler.Handle(ctx, err)
			cancel()
		}))

	_, err := svc.FindInterestingCustomers(ctx, testProduct)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, handler.errs, 1)
	assert.Empty(t, second.products)
}

func TestNewService_CopiesStrategyOrder(t *testing.T) {
	a := &stubStrategy{name: "a", customers: []entity.Customer{customerOne}}
	b := &stubStrategy{name: "b", customers: []entity.Customer{customerTwo}}
	strategies := []Strategy{a, b}

	svc := NewService(strategies, newFakeStore(&callLog{}), &fakeAnnouncer{}, nil)
	strategies[0] = b

	got, err := svc.FindInterestingCustomers(context.Background(), testProduct)
	require.NoError(t, err)
	assert.Equal(t, customerOne.ID, got[0].ID)
	assert.Equal(t, []string{"a", "b"}, svc.Strategies())
}

func TestPrepareOfferForProduct_PersistsBeforeSend(t *testing.T) {
	log := &callLog{}
	store := newFakeStore(log, testProduct)
	announcer := &fakeAnnouncer{log: log}
	svc := NewService([]Strategy{&stubStrategy{name: "credit", customers: []entity.Customer{customerOne}}}, store, announcer, nil)

	result, err := svc.PrepareOfferForProduct(context.Background(), testProduct.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"find:10", "persist:1", "send:1"}, log.entries())

	require.Len(t, store.persisted, 1)
	require.Len(t, announcer.sent, 1)
	assert.True(t, store.persisted[0].Equal(announcer.sent[0]))
	assert.Same(t, store.persisted[0], announcer.sent[0])
	assert.True(t, announcer.sent[0].Customer.Equal(customerOne))
	assert.True(t, announcer.sent[0].Product.Equal(*testProduct))

	assert.Equal(t, "credit", result.Strategy)
	assert.Equal(t, testProduct.ID, result.ProductID)
	assert.Len(t, result.Offers, 1)
}

func TestPrepareOfferForProduct_OneOfferPerCustomerInOrder(t *testing.T) {
	log := &callLog{}
	store := newFakeStore(log, testProduct)
	announcer := &fakeAnnouncer{log: log}
	svc := NewService([]Strategy{&stubStrategy{name: "credit", customers: []entity.Customer{customerOne, customerTwo}}}, store, announcer, nil)

	_, err := svc.PrepareOfferForProduct(context.Background(), testProduct.ID)
	require.NoError(t, err)

	require.Len(t, store.persisted, 2)
	assert.True(t, store.persisted[0].Customer.Equal(customerOne))
	assert.True(t, store.persisted[1].Customer.Equal(customerTwo))
	assert.Equal(t, []string{"find:10", "persist:1", "send:1", "persist:2", "send:2"}, log.entries())
}

func TestPrepareOfferForProduct_AllStrategiesFail(t *testing.T) {
	log := &callLog{}
	store := newFakeStore(log, testProduct)
	announcer := &fakeAnnouncer{log: log}
	handler := &recordingHandler{log: log}
	svc := NewService([]Strategy{
		&stubStrategy{name: "a", err: NewCannotInterpret("a", testProduct.ID, nil), log: log},
		&stubStrategy{name: "b", err: NewAnalysisFailed("b", testProduct.ID, nil), log: log},
		&stubStrategy{name: "c", err: NewAnalysisFailed("c", testProduct.ID, nil), log: log},
	}, store, announcer, handler)

	result, err := svc.PrepareOfferForProduct(context.Background(), testProduct.ID)
	require.NoError(t, err)

	assert.Len(t, handler.errs, 3)
	assert.Empty(t, store.persisted)
	assert.Empty(t, announcer.sent)
	assert.Empty(t, result.Offers)
	assert.Empty(t, result.Strategy)
	assert.Equal(t, []string{
		"find:10",
		"analyze:a", "handle",
		"analyze:b", "handle",
		"analyze:c", "handle",
	}, log.entries())
}

func TestPrepareOfferForProduct_LookupFailure(t *testing.T) {
	log := &callLog{}
	strategy := &stubStrategy{name: "credit", customers: []entity.Customer{customerOne}}
	handler := &recordingHandler{}
	svc := NewService([]Strategy{strategy}, newFakeStore(log), &fakeAnnouncer{log: log}, handler)

	result, err := svc.PrepareOfferForProduct(context.Background(), 404)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	var lookupErr *repository.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, int64(404), lookupErr.ID)

	assert.Empty(t, strategy.products, "no analysis after a failed lookup")
	assert.Empty(t, handler.errs, "lookup failures are not analysis failures")
	assert.Equal(t, []string{"find:404"}, log.entries())
}

func TestPrepareOfferForProduct_StoreReturnsNilProduct(t *testing.T) {
	store := &nilProductStore{}
	svc := NewService(nil, store, &fakeAnnouncer{log: &callLog{}}, nil)

	_, err := svc.PrepareOfferForProduct(context.Background(), 5)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

type nilProductStore struct{}

func (nilProductStore) FindProduct(context.Context, int64) (*entity.Product, error) { return nil, nil }
func (nilProductStore) PersistOffer(context.Context, *entity.Offer) error           { return nil }

func TestPrepareOfferForProduct_PersistFailureStopsWithoutSending(t *testing.T) {
	log := &callLog{}
	persistErr := &repository.PersistError{Kind: "offer", Err: errors.New("connection reset")}
	store := newFakeStore(log, testProduct)
	store.persistErr = persistErr
	store.failPersistAt = 2
	announcer := &fakeAnnouncer{log: log}
	handler := &recordingHandler{}
	third := entity.NewCustomer(3, "third", decimal.NewFromInt(1000))
	svc := NewService([]Strategy{&stubStrategy{name: "credit", customers: []entity.Customer{customerOne, customerTwo, third}}}, store, announcer, handler)

	result, err := svc.PrepareOfferForProduct(context.Background(), testProduct.ID)
	require.Error(t, err)
	assert.Same(t, persistErr, err, "persist errors propagate unchanged")
	assert.ErrorIs(t, err, repository.ErrPersistFailed)

	assert.Equal(t, []string{"find:10", "persist:1", "send:1", "persist-failed:2"}, log.entries())
	assert.Empty(t, handler.errs, "persist failures are not routed to the failure handler")
	require.NotNil(t, result)
	assert.Len(t, result.Offers, 1, "offers completed before the failure are reported")
}

func TestPrepareOfferForProduct_SendFailurePropagates(t *testing.T) {
	log := &callLog{}
	store := newFakeStore(log, testProduct)
	sendErr := errors.New("channel unavailable")
	announcer := &fakeAnnouncer{log: log, sendErr: sendErr}
	svc := NewService([]Strategy{&stubStrategy{name: "credit", customers: []entity.Customer{customerOne, customerTwo}}}, store, announcer, nil)

	result, err := svc.PrepareOfferForProduct(context.Background(), testProduct.ID)
	assert.ErrorIs(t, err, sendErr)

	assert.Equal(t, []string{"find:10", "persist:1", "send-failed:1"}, log.entries())
	assert.Len(t, store.persisted, 1, "the persisted offer is not rolled back")
	assert.Empty(t, result.Offers)
}
