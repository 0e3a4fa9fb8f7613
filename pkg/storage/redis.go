package storage

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/matst80/slask-grid/pkg/common/jsoncompat"
	"github.com/matst80/slask-grid/pkg/types"
)

const REDIS_STATE_KEY = "_gridstate_"
const REDIS_STATE_CHANGE = "gridStateChange"

// ViewState is the directive state of one grid kept in redis so restarted
// nodes resume with the ordering users last saw.
type ViewState struct {
	Grid        string                  `json:"grid"`
	Sort        []types.SortDirective   `json:"sort,omitempty"`
	Filter      []types.FilterDirective `json:"filter,omitempty"`
	SortCleared bool                    `json:"sortCleared,omitempty"`
}

type ViewStateStore struct {
	client *redis.Client
}

func NewViewStateStore(addr, password string, db int) *ViewStateStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &ViewStateStore{client: rdb}
}

func stateKey(grid string) string {
	return REDIS_STATE_KEY + grid
}

// SaveState writes the grid state and notifies subscribers with the grid name
// as payload.
func (s *ViewStateStore) SaveState(ctx context.Context, state ViewState) error {
	data, err := jsoncompat.Marshal(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, stateKey(state.Grid), string(data), 0).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, REDIS_STATE_CHANGE, state.Grid).Err()
}

func (s *ViewStateStore) LoadState(ctx context.Context, grid string) (*ViewState, error) {
	data, err := s.client.Get(ctx, stateKey(grid)).Result()
	if err != nil {
		return nil, err
	}
	state := &ViewState{}
	if err := jsoncompat.Unmarshal([]byte(data), state); err != nil {
		return nil, err
	}
	if state.Grid == "" {
		state.Grid = grid
	}
	return state, nil
}

// ListenForStateChanges invokes fn with the fresh state each time another
// node publishes a change. The subscription runs until the process exits.
func (s *ViewStateStore) ListenForStateChanges(fn func(state *ViewState)) {
	ctx := context.Background()
	go func(ch <-chan *redis.Message) {
		for msg := range ch {
			state, err := s.LoadState(ctx, msg.Payload)
			if err != nil {
				log.Printf("failed to load state for %s: %v", msg.Payload, err)
				continue
			}
			fn(state)
		}
	}(s.client.Subscribe(ctx, REDIS_STATE_CHANGE).Channel())
}

func (s *ViewStateStore) Close() error {
	return s.client.Close()
}
