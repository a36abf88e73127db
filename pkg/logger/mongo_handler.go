package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoDrainTick = 2 * time.Second
)

// Entry is one log record as stored in MongoDB. Catalog-specific attributes
// are lifted to top-level fields so audit queries ("every failed cascade for
// category X") hit an index instead of scanning attrs.
type Entry struct {
	Time       time.Time `bson:"time"`
	Level      string    `bson:"level"`
	Msg        string    `bson:"msg"`
	RequestID  string    `bson:"request_id,omitempty"`
	CategoryID string    `bson:"category_id,omitempty"`
	Action     string    `bson:"action,omitempty"`
	Attrs      bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler is an slog.Handler that batches records into a MongoDB
// collection from a background goroutine. Handle never blocks: records are
// dropped when the queue is full.
type MongoHandler struct {
	sink   *mongoSink
	level  slog.Level
	attrs  []slog.Attr
	prefix string
}

type mongoSink struct {
	col       *mongo.Collection
	client    *mongo.Client
	queue     chan Entry
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewMongoHandler connects to uri and writes into db.collection.
// The caller must eventually call Close.
func NewMongoHandler(uri, db, collection string, level slog.Level) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: -1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "time", Value: -1}}},
	})

	sink := &mongoSink{
		col:    col,
		client: client,
		queue:  make(chan Entry, mongoQueueSize),
		done:   make(chan struct{}),
	}
	sink.wg.Add(1)
	go sink.drain()

	return &MongoHandler{sink: sink, level: level}, nil
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	add := func(a slog.Attr) {
		key := h.prefix + a.Key
		val := a.Value.Resolve()
		switch key {
		case "request_id":
			e.RequestID = val.String()
		case "category_id":
			e.CategoryID = val.String()
		case "action":
			e.Action = val.String()
		default:
			if err, ok := val.Any().(error); ok {
				e.Attrs[key] = err.Error()
				return
			}
			e.Attrs[key] = val.Any()
		}
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(a)
		return true
	})

	select {
	case h.sink.queue <- e:
	default:
	}
	return nil
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// Close flushes queued entries and disconnects. Safe to call more than once.
func (h *MongoHandler) Close() {
	h.sink.closeOnce.Do(func() {
		close(h.sink.done)
		h.sink.wg.Wait()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.sink.client.Disconnect(ctx)
	})
}

func (s *mongoSink) drain() {
	defer s.wg.Done()

	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, mongoBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = s.col.InsertMany(ctx, batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.queue:
			batch = append(batch, e)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for len(s.queue) > 0 {
				batch = append(batch, <-s.queue)
			}
			flush()
			return
		}
	}
}

// MultiHandler sends each record to every handler that accepts its level.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []string
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("logger: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: hs}
}
