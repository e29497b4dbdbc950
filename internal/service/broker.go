package service

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/recipehub/backend/internal/models"
	"gorm.io/gorm"
)

const recipeChangeChannel = "recipes:changed"

// RecipeBroker fans out full recipe-collection snapshots to subscribers.
// Each confirmed store write triggers a fresh query; subscribers always see
// store-confirmed state, never an optimistic local mutation. When a Redis
// client is configured, change notifications are bridged across instances
// over pub/sub; each instance re-queries its own store on receipt.
type RecipeBroker struct {
	db    *gorm.DB
	redis *redis.Client

	mu     sync.Mutex
	subs   map[int]chan []models.Recipe
	nextID int
}

// NewRecipeBroker creates a broker. redisClient may be nil for
// single-instance deployments and tests.
func NewRecipeBroker(db *gorm.DB, redisClient *redis.Client) *RecipeBroker {
	return &RecipeBroker{
		db:    db,
		redis: redisClient,
		subs:  make(map[int]chan []models.Recipe),
	}
}

// Subscribe registers a subscriber and delivers the current snapshot
// immediately. The returned cancel func releases the subscription; after it
// returns no further snapshots are delivered and the channel is closed.
// Cancelling ctx has the same effect.
func (b *RecipeBroker) Subscribe(ctx context.Context) (<-chan []models.Recipe, func()) {
	// Capacity 1 with latest-wins replacement: a slow consumer always gets
	// the newest snapshot and never blocks a writer.
	ch := make(chan []models.Recipe, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	if snapshot, err := b.snapshot(ctx); err == nil {
		b.mu.Lock()
		// Deliver only while still registered (a cancelled subscription's
		// channel is closed), and yield to a broadcast that raced in ahead
		// of us: its snapshot is at least as fresh as this one.
		if _, live := b.subs[id]; live {
			select {
			case ch <- snapshot:
			default:
			}
		}
		b.mu.Unlock()
	} else {
		log.Printf("recipe broker: initial snapshot failed: %v", err)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}

	stop := context.AfterFunc(ctx, cancel)
	return ch, func() {
		stop()
		cancel()
	}
}

// Notify re-queries the store and pushes the resulting snapshot to every
// subscriber, then publishes a change notification for other instances.
// Snapshots are idempotent, so receiving our own pub/sub message back only
// costs one redundant query.
func (b *RecipeBroker) Notify(ctx context.Context) {
	b.broadcast(ctx)

	if b.redis != nil {
		if err := b.redis.Publish(ctx, recipeChangeChannel, "1").Err(); err != nil {
			log.Printf("recipe broker: publish failed: %v", err)
		}
	}
}

// Run consumes cross-instance change notifications until ctx is cancelled.
// It is a no-op without a Redis client.
func (b *RecipeBroker) Run(ctx context.Context) {
	if b.redis == nil {
		return
	}
	sub := b.redis.Subscribe(ctx, recipeChangeChannel)
	defer func() { _ = sub.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.Channel():
			if !ok {
				return
			}
			b.broadcast(ctx)
		}
	}
}

// SubscriberCount reports the number of active subscriptions.
func (b *RecipeBroker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *RecipeBroker) broadcast(ctx context.Context) {
	snapshot, err := b.snapshot(ctx)
	if err != nil {
		log.Printf("recipe broker: snapshot failed: %v", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		deliver(ch, snapshot)
	}
}

// deliver replaces any pending snapshot with the new one without ever
// blocking. Callers must hold b.mu, which keeps the drain and the send
// atomic with respect to other senders.
func deliver(ch chan []models.Recipe, snapshot []models.Recipe) {
	// Drop the stale pending snapshot, if any, then enqueue the new one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snapshot:
	default:
	}
}

func (b *RecipeBroker) snapshot(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := withAssociations(b.db.WithContext(ctx)).Order("created_at DESC").Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}
