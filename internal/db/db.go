package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// ConnectionError is returned when the database cannot be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Manager owns the single client shared by every store. The client is dialed
// on first use and reused for the life of the process.
type Manager struct {
	cfg Config
	log *slog.Logger

	mu      sync.Mutex
	client  *mongo.Client
	db      *mongo.Database
	indexes map[string][]mongo.IndexModel
}

func NewManager(cfg Config, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	return &Manager{
		cfg:     cfg,
		log:     log,
		indexes: make(map[string][]mongo.IndexModel),
	}
}

// RegisterIndexes queues index models for coll. They are created on the
// first successful Connect.
func (m *Manager) RegisterIndexes(coll string, models ...mongo.IndexModel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.indexes[coll] = append(m.indexes[coll], models...)
}

// Connect returns the database handle, dialing if no client exists yet.
// A failed attempt is not remembered, the next call dials again.
func (m *Manager) Connect(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if m.cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(m.cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &ConnectionError{Err: err}
	}

	db := client.Database(m.cfg.Database)

	if err := m.ensureIndexes(dialCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	m.client = client
	m.db = db

	m.log.Info("mongo connected", "database", m.cfg.Database)

	return db, nil
}

func (m *Manager) ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range m.indexes {
		if len(models) == 0 {
			continue
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Ping checks the database is reachable, connecting first if needed.
func (m *Manager) Ping(ctx context.Context) error {
	db, err := m.Connect(ctx)
	if err != nil {
		return err
	}
	if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return &ConnectionError{Err: err}
	}
	return nil
}

func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}

	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}
