package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// KeyPrefix namespaces every key written by Storage.
const KeyPrefix = "bkkmap:limiter:"

const opTimeout = 2 * time.Second

// Storage implements fiber.Storage on Valkey so rate-limit counters are
// shared between API replicas.
type Storage struct {
	client valkey.Client
}

// New creates a new Valkey-backed storage.
func New(addr string) (*Storage, error) {
	if addr == "" {
		return nil, errors.New("valkey connect: empty address")
	}
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Storage{client: client}, nil
}

func key(k string) string { return KeyPrefix + k }

// Get retrieves a value by key. A missing key yields nil, nil.
func (s *Storage) Get(k string) ([]byte, error) {
	if k == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	b, err := s.client.Do(ctx, s.client.B().Get().Key(key(k)).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set stores a value. A zero exp keeps the key until deleted.
func (s *Storage) Set(k string, val []byte, exp time.Duration) error {
	if k == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	set := s.client.B().Set().Key(key(k)).Value(valkey.BinaryString(val))
	if exp > 0 {
		return s.client.Do(ctx, set.Px(exp).Build()).Error()
	}
	return s.client.Do(ctx, set.Build()).Error()
}

// Delete removes a key.
func (s *Storage) Delete(k string) error {
	if k == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.client.Do(ctx, s.client.B().Del().Key(key(k)).Build()).Error()
}

// Reset removes every key under KeyPrefix. Keys outside the prefix are left
// alone.
func (s *Storage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cursor uint64
	for {
		entry, err := s.client.Do(ctx,
			s.client.B().Scan().Cursor(cursor).Match(KeyPrefix+"*").Count(100).Build(),
		).AsScanEntry()
		if err != nil {
			return err
		}
		if len(entry.Elements) > 0 {
			if err := s.client.Do(ctx, s.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return err
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

// Ping checks connectivity for readiness probes.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (s *Storage) Close() error {
	s.client.Close()
	return nil
}
