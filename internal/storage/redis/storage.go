package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, roomKey(room.ID), data, s.cfg.RoomTTL).Err()
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		// Only a missing key maps to not-found; any other failure is a
		// store error and must surface as such.
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	return s.client.Del(ctx, roomKey(id)).Err()
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	var rooms []*model.Room
	var cursor uint64

	for {
		keys, next, err := s.client.Scan(ctx, cursor, roomKeyPattern, s.cfg.ScanCount).Result()
		if err != nil {
			return nil, err
		}

		if len(keys) > 0 {
			values, err := s.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, err
			}
			for _, val := range values {
				if val == nil {
					continue // Room expired between SCAN and MGET
				}
				var room model.Room
				if err := json.Unmarshal([]byte(val.(string)), &room); err != nil {
					continue // Skip invalid data
				}
				rooms = append(rooms, &room)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return rooms, nil
}

// Paragraph operations

func (s *Storage) SaveParagraph(ctx context.Context, paragraph *model.Paragraph) error {
	data, err := json.Marshal(paragraph)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, paragraphKey(paragraph.ID), data, 0)
	pipe.SAdd(ctx, paragraphIndexKey(), string(paragraph.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetParagraph(ctx context.Context, id model.ParagraphID) (*model.Paragraph, error) {
	data, err := s.client.Get(ctx, paragraphKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParagraphNotFound
		}
		return nil, err
	}

	var paragraph model.Paragraph
	if err := json.Unmarshal(data, &paragraph); err != nil {
		return nil, err
	}
	return &paragraph, nil
}

func (s *Storage) ParagraphIDs(ctx context.Context) ([]model.ParagraphID, error) {
	members, err := s.client.SMembers(ctx, paragraphIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]model.ParagraphID, len(members))
	for i, m := range members {
		ids[i] = model.ParagraphID(m)
	}
	return ids, nil
}
