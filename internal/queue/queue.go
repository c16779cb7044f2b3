// Package queue holds the backlog of app ids waiting to be scraped.
// The Redis backend lets several scraper processes share one backlog;
// the in-memory backend covers single-process runs and tests.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrQueueClosed = errors.New("queue is closed")
)

// Task is one pending scrape.
type Task struct {
	ID        string    `json:"id"`
	AppID     int64     `json:"app_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTask(appID int64) *Task {
	return &Task{
		ID:        uuid.NewString(),
		AppID:     appID,
		CreatedAt: time.Now().UTC(),
	}
}

type Queue interface {
	Push(ctx context.Context, task *Task) error
	// Pop blocks until a task is available, the queue closes, or ctx ends.
	Pop(ctx context.Context) (*Task, error)
	Size(ctx context.Context) (int64, error)
	Close() error
}

// InMemoryQueue is a FIFO queue for single-process runs.
type InMemoryQueue struct {
	mu     sync.Mutex
	tasks  []*Task
	notify chan struct{}
	done   chan struct{}
	closed bool
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *InMemoryQueue) Push(_ context.Context, task *Task) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	q.wake()
	return nil
}

func (q *InMemoryQueue) Pop(ctx context.Context) (*Task, error) {
	for {
		q.mu.Lock()
		if len(q.tasks) > 0 {
			task := q.tasks[0]
			q.tasks = q.tasks[1:]
			remaining := len(q.tasks)
			q.mu.Unlock()
			if remaining > 0 {
				// Another waiter may be blocked; pass the signal on.
				q.wake()
			}
			return task, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, ErrQueueClosed
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.done:
		case <-q.notify:
		}
	}
}

func (q *InMemoryQueue) Size(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.tasks)), nil
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.done)
	}
	return nil
}

func (q *InMemoryQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// RedisQueue backs the task list with a Redis list, JSON-encoded tasks.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "queue:scrape_tasks"
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Push(ctx context.Context, task *Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to push task: %w", err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context) (*Task, error) {
	res, err := q.client.BRPop(ctx, 0, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQueueEmpty
		}
		return nil, fmt.Errorf("failed to pop task: %w", err)
	}

	// BRPop returns [key, value].
	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

func (q *RedisQueue) Size(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue size: %w", err)
	}
	return size, nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
