package projects

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/yash-srivastava19/canopy/internal/config"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

// Gateway is what the editor talks to: a store plus a change feed.
type Gateway struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func NewGateway(store Store, notifier Notifier) *Gateway {
	if notifier == nil {
		notifier = NewLocalNotifier()
	}
	return &Gateway{store: store, notifier: notifier, now: time.Now}
}

// Open builds the gateway described by cfg.
func Open(cfg *config.Config) (*Gateway, error) {
	sc := cfg.Store
	var (
		store    Store
		notifier Notifier
		err      error
	)
	switch sc.Backend {
	case config.BackendFile, "":
		store, err = NewFileStore(sc.DataDir)
	case config.BackendSQLite:
		path := sc.DatabaseURL
		if path == "" {
			path = filepath.Join(sc.DataDir, "canopy.db")
		}
		store, err = OpenSQLite(path)
	case config.BackendPostgres:
		if sc.DatabaseURL == "" {
			return nil, errors.New("postgres backend needs database_url or CANOPY_DATABASE_URL")
		}
		store, err = OpenPostgres(sc.DatabaseURL)
	case config.BackendRedis:
		if sc.RedisURL == "" {
			return nil, errors.New("redis backend needs redis_url or CANOPY_REDIS_URL")
		}
		var rs *RedisStore
		rs, err = NewRedisStore(sc.RedisURL)
		if err == nil {
			store = rs
			notifier = NewRedisNotifierWithClient(rs.Client())
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
	if err != nil {
		return nil, err
	}

	if notifier == nil && sc.NotifyRedis && sc.RedisURL != "" {
		notifier, err = NewRedisNotifier(sc.RedisURL)
		if err != nil {
			store.Close()
			return nil, err
		}
	}
	return NewGateway(store, notifier), nil
}

func (g *Gateway) Store() Store {
	return g.store
}

// Subscribe delivers the full project list to cb now and after every
// change until the returned function is called. Refresh failures are
// logged and skipped.
func (g *Gateway) Subscribe(ctx context.Context, cb func([]Project)) (func(), error) {
	push := func() {
		list, err := g.store.List(ctx)
		if err != nil {
			log.Printf("projects: refreshing feed: %v", err)
			return
		}
		cb(list)
	}

	stop, err := g.notifier.Listen(ctx, push)
	if err != nil {
		return nil, err
	}
	push()
	return stop, nil
}

func (g *Gateway) List(ctx context.Context) ([]Project, error) {
	return g.store.List(ctx)
}

func (g *Gateway) Get(ctx context.Context, id string) (Project, error) {
	return g.store.Get(ctx, id)
}

// Save stamps the project with the current time and merges it into the
// store. Nodes are normalized first, so no loading flag is ever persisted.
// An empty id is ignored.
func (g *Gateway) Save(ctx context.Context, id, name string, nodes []mindmap.Node, o mindmap.Orientation) (Project, error) {
	if id == "" {
		return Project{}, nil
	}
	p, err := g.store.Put(ctx, Project{
		ID:          id,
		Name:        name,
		Nodes:       mindmap.Normalize(nodes),
		Orientation: o,
		UpdatedAt:   g.now().UnixMilli(),
	})
	if err != nil {
		return Project{}, fmt.Errorf("save project %s: %w", id, err)
	}
	g.notify(ctx)
	return p, nil
}

// Rename changes only the name of an existing project.
func (g *Gateway) Rename(ctx context.Context, id, name string) (Project, error) {
	p, err := g.store.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	return g.Save(ctx, id, name, p.Nodes, p.Orientation)
}

// Delete removes a project. An empty id is ignored.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := g.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	g.notify(ctx)
	return nil
}

func (g *Gateway) notify(ctx context.Context) {
	if err := g.notifier.Notify(ctx); err != nil {
		log.Printf("projects: %v", err)
	}
}

func (g *Gateway) Close() error {
	return errors.Join(g.notifier.Close(), g.store.Close())
}
