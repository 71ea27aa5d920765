package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/infra/strategy"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingAnnouncer struct {
	mu     sync.Mutex
	offers []*entity.Offer
}

func (r *recordingAnnouncer) Send(_ context.Context, offer *entity.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers = append(r.offers, offer)
	return nil
}

func openSQLite(t *testing.T) *Store {
	t.Helper()
	cfg := StoreConfig{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "offers.db")}
	store, err := OpenStore(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadStoreConfig(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/var/lib/offers/offers.db")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg := LoadStoreConfig()

	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "/var/lib/offers/offers.db", cfg.SQLitePath)
	assert.False(t, cfg.AutoMigrate)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), StoreConfig{Driver: "mysql"}, discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown STORE_DRIVER "mysql"`)
}

func TestOpenStore_PostgresRequiresDSN(t *testing.T) {
	_, err := OpenStore(context.Background(), StoreConfig{Driver: DriverPostgres}, discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL not set")
}

func TestOpenStore_SQLite(t *testing.T) {
	store := openSQLite(t)

	assert.Equal(t, DriverSQLite, store.Driver)
	assert.NotNil(t, store.Customers)
	assert.NotNil(t, store.Products)
	assert.NotNil(t, store.Offers)
	assert.NotNil(t, store.Records)
}

func TestNewAnalysisService_PreparesOffersEndToEnd(t *testing.T) {
	store := openSQLite(t)
	ctx := context.Background()

	rich := entity.NewCustomer(0, "Ada", decimal.NewFromInt(500))
	poor := entity.NewCustomer(0, "Bob", decimal.NewFromInt(20))
	require.NoError(t, store.Customers.Create(ctx, &rich))
	require.NoError(t, store.Customers.Create(ctx, &poor))
	product := &entity.Product{Name: "Tent", Category: "outdoor", Price: decimal.NewFromInt(120), Active: true}
	require.NoError(t, store.Products.Create(ctx, product))

	announcer := &recordingAnnouncer{}
	svc, err := NewAnalysisService(discardLogger(), strategy.Config{Names: []string{strategy.NameCredit}}, store, announcer)
	require.NoError(t, err)

	result, err := svc.PrepareOfferForProduct(ctx, product.ID)

	require.NoError(t, err)
	require.Len(t, result.Offers, 1)
	assert.Equal(t, strategy.NameCredit, result.Strategy)
	assert.Equal(t, rich.ID, result.Offers[0].Customer.ID)
	assert.Len(t, announcer.offers, 1)

	stored, err := store.Offers.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, rich.ID, stored[0].Customer.ID)
}

func TestNewAnalysisService_LogsStrategiesOnce(t *testing.T) {
	store := openSQLite(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	prev := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := strategy.Config{Names: []string{strategy.NameRules, strategy.NameCredit}}
	_, err := NewAnalysisService(logger, cfg, store, &recordingAnnouncer{})
	require.NoError(t, err)

	var logged [][]string
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var line struct {
			Msg        string   `json:"msg"`
			Strategies []string `json:"strategies"`
		}
		require.NoError(t, dec.Decode(&line))
		if line.Msg == "analysis strategies configured" {
			logged = append(logged, line.Strategies)
		}
	}
	assert.Equal(t, [][]string{{strategy.NameRules, strategy.NameCredit}}, logged)
}

func TestNewAnalysisService_NoStrategies(t *testing.T) {
	store := openSQLite(t)

	_, err := NewAnalysisService(discardLogger(), strategy.Config{Names: nil}, store, &recordingAnnouncer{})

	assert.ErrorContains(t, err, "no strategy configured")
}

func TestNewNotifyService_NoChannels(t *testing.T) {
	t.Setenv("DISCORD_ENABLED", "false")
	t.Setenv("SLACK_ENABLED", "false")

	svc := NewNotifyService(discardLogger(), 4)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})

	assert.Empty(t, svc.GetChannelHealth())
}

func TestStore_WatchPoolStats(t *testing.T) {
	store := openSQLite(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		store.WatchPoolStats(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchPoolStats did not stop after cancel")
	}
}
