package sharedcache

import (
	"context"
	"sync"
	"time"

	"github.com/aurum-app/aurum/internal/models"
	"github.com/aurum-app/aurum/pkg/logger"
)

// State is the shared view of the price feed that every subscriber
// observes. A failed refresh keeps the previous Data and surfaces the
// problem through Err (stale-while-revalidate).
type State struct {
	Data        *models.PriceSnapshot
	Loading     bool
	Err         string
	LastUpdated time.Time
}

// FetchOptions controls a single fetch.
type FetchOptions struct {
	// ShowLoading forces the loading flag even when cached data exists.
	// Background refreshes leave it unset so stale data keeps rendering.
	ShowLoading bool
}

type fetchCall struct {
	done chan struct{}
	err  error
}

// Cache is a single-flight, multi-subscriber cache over the price feed.
// However many consumers subscribe, there is at most one in-flight
// fetch and one polling loop; every consumer observes the same state.
type Cache struct {
	logger   *logger.Logger
	source   models.PriceSource
	interval time.Duration

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextID      int
	inflight    *fetchCall
	visible     bool
	running     bool
	stop        chan struct{}
}

// New creates a cache polling source every interval while subscribed.
func New(source models.PriceSource, interval time.Duration, logger *logger.Logger) *Cache {
	return &Cache{
		logger:      logger,
		source:      source,
		interval:    interval,
		subscribers: make(map[int]func(State)),
		visible:     true,
	}
}

// Seed pre-populates the shared state with externally fetched data so
// the first subscriber does not see an empty loading state. A seed
// never overwrites data from a completed fetch.
func (c *Cache) Seed(snapshot *models.PriceSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Data != nil || snapshot == nil {
		return
	}
	c.state.Data = snapshot
	c.state.LastUpdated = snapshot.FetchedAt
}

// GetState returns the current shared state.
func (c *Cache) GetState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a callback, delivers the current state to it
// synchronously and ensures the polling loop is running. The returned
// function unsubscribes; when the last subscriber leaves, polling stops
// and no background work continues.
func (c *Cache) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	state := c.state
	if !c.running {
		c.running = true
		c.stop = make(chan struct{})
		go c.pollLoop(c.stop)
	}
	c.mu.Unlock()

	fn(state)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			if len(c.subscribers) == 0 && c.running {
				c.running = false
				close(c.stop)
			}
			c.mu.Unlock()
		})
	}
}

// Fetch refreshes the shared state from the source. Concurrent callers
// share a single in-flight fetch and all receive its outcome.
func (c *Cache) Fetch(ctx context.Context, opts FetchOptions) error {
	c.mu.Lock()
	if c.inflight != nil {
		call := c.inflight
		c.mu.Unlock()
		<-call.done
		return call.err
	}
	call := &fetchCall{done: make(chan struct{})}
	c.inflight = call

	var fns []func(State)
	var state State
	if c.state.Data == nil || opts.ShowLoading {
		c.state.Loading = true
		state, fns = c.snapshotLocked()
	}
	c.mu.Unlock()
	broadcast(state, fns)

	snapshot, err := c.source.Fetch(ctx)

	c.mu.Lock()
	c.inflight = nil
	if err != nil {
		c.logger.Warn("Price refresh failed: ", err)
		c.state.Loading = false
		c.state.Err = "Unable to refresh prices. Showing last known data."
	} else {
		c.state.Data = snapshot
		c.state.Loading = false
		c.state.Err = ""
		c.state.LastUpdated = time.Now()
	}
	state, fns = c.snapshotLocked()
	c.mu.Unlock()
	broadcast(state, fns)

	call.err = err
	close(call.done)
	return err
}

// ForceRefresh performs a loading-indicated refetch. Used for the
// manual retry action.
func (c *Cache) ForceRefresh(ctx context.Context) error {
	return c.Fetch(ctx, FetchOptions{ShowLoading: true})
}

// SetVisible pauses polling while the consumer is hidden. Becoming
// visible again fires an immediate background refresh.
func (c *Cache) SetVisible(visible bool) {
	c.mu.Lock()
	wasVisible := c.visible
	c.visible = visible
	running := c.running
	c.mu.Unlock()

	if visible && !wasVisible && running {
		go func() {
			_ = c.Fetch(context.Background(), FetchOptions{})
		}()
	}
}

func (c *Cache) pollLoop(stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			visible := c.visible
			c.mu.Unlock()
			if !visible {
				continue
			}
			_ = c.Fetch(context.Background(), FetchOptions{})
		}
	}
}

// snapshotLocked copies the state and subscriber list. Caller holds mu;
// callbacks are invoked after it is released.
func (c *Cache) snapshotLocked() (State, []func(State)) {
	fns := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	return c.state, fns
}

func broadcast(state State, fns []func(State)) {
	for _, fn := range fns {
		fn(state)
	}
}
