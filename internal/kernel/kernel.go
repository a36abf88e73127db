// Package kernel assembles the catalogue: it opens the database, cache and
// asset disks, builds the services and wires the event listeners that keep
// them consistent.
package kernel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogue/app/services"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/auth"
	"github.com/shashiranjanraj/catalogue/pkg/cache"
	"github.com/shashiranjanraj/catalogue/pkg/database"
	"github.com/shashiranjanraj/catalogue/pkg/event"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/mail"
	"github.com/shashiranjanraj/catalogue/pkg/middleware"
	"github.com/shashiranjanraj/catalogue/pkg/schedule"
	"github.com/shashiranjanraj/catalogue/pkg/storage"
	"github.com/shashiranjanraj/catalogue/pkg/workerpool"
)

const mailWorkers = 4

// Kernel owns every long-lived collaborator of a running catalogue.
type Kernel struct {
	DB      *gorm.DB
	Cache   cache.Store
	Bus     *event.Bus
	Disks   *storage.Manager
	Tokens  *auth.Manager
	Catalog *services.Catalog
	Limiter *middleware.Limiter

	mailPool *workerpool.Pool
	closers  []func()
}

// Option customises Boot.
type Option func(*options)

type options struct {
	offline bool
	db      *gorm.DB
	cache   cache.Store
	disks   *storage.Manager
	mailer  mail.Sender
}

// Offline builds the services without opening any connection. Only the
// route table of such a kernel is usable.
func Offline() Option {
	return func(o *options) {
		o.offline = true
		o.cache = cache.Noop{}
		o.disks = storage.NewManagerWith(storage.NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))
	}
}

// WithDB skips opening a connection and uses db.
func WithDB(db *gorm.DB) Option { return func(o *options) { o.db = db } }

// WithCache skips dialing Redis and uses s.
func WithCache(s cache.Store) Option { return func(o *options) { o.cache = s } }

// WithDisks replaces the configured asset disks.
func WithDisks(m *storage.Manager) Option { return func(o *options) { o.disks = m } }

// WithMailer replaces the SMTP sender.
func WithMailer(s mail.Sender) Option { return func(o *options) { o.mailer = s } }

// Boot builds a Kernel from configuration. Redis is optional: when it cannot
// be reached the catalogue runs uncached.
func Boot(ctx context.Context, opts ...Option) (*Kernel, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	k := &Kernel{Bus: event.NewBus(), Tokens: auth.FromConfig()}

	k.DB = o.db
	if k.DB == nil && !o.offline {
		db, err := database.Connect()
		if err != nil {
			return nil, err
		}
		k.DB = db
		k.closers = append(k.closers, func() { _ = database.Close(db) })
	}

	k.Cache = o.cache
	if k.Cache == nil {
		store, err := cache.Connect(ctx)
		if err != nil {
			logger.Warn("cache disabled", "error", err)
		}
		if r, ok := store.(*cache.Redis); ok {
			k.closers = append(k.closers, func() { _ = r.Close() })
		}
		k.Cache = store
	}

	k.Disks = o.disks
	if k.Disks == nil {
		k.Disks = storage.NewManager(ctx)
	}

	deps := services.Deps{
		DB:     k.DB,
		Events: k.Bus,
		Assets: services.NewAssetService(k.Disks),
		Cache:  k.Cache,
	}
	k.Catalog = services.NewCatalog(deps, k.Tokens)

	k.listen(o.mailer)
	return k, nil
}

// listen wires cache invalidation and inbox notifications onto the bus.
func (k *Kernel) listen(mailer mail.Sender) {
	flush := func(ctx context.Context, e event.Event) {
		if err := cache.FlushCatalog(ctx, k.Cache); err != nil {
			logger.WithCtx(ctx).Warn("cache flush failed", "entity", e.Entity, "error", err)
		}
	}
	k.Bus.Listen(event.CatalogChanged, flush)
	k.Bus.Listen(event.CascadeApplied, flush)

	to := recipients(config.EnquiryNotifyTo())
	if len(to) == 0 {
		return
	}
	if mailer == nil {
		mailer = mail.Default()
	}
	k.mailPool = workerpool.New("mail", mailWorkers)
	k.Bus.Listen(event.InboxReceived, services.NewNotifier(mailer, k.mailPool, to...).Handle)
}

// Scheduler returns the background jobs enabled by configuration.
func (k *Kernel) Scheduler() *schedule.Scheduler {
	s := schedule.New()
	if m := config.ReconcileIntervalMinutes(); m > 0 {
		s.Every(time.Duration(m)*time.Minute, "cascade:reconcile", func(ctx context.Context) error {
			report, err := k.Catalog.Cascade.Reconcile(ctx, "system")
			if err != nil {
				return err
			}
			if report.Repaired > 0 || report.Failed > 0 {
				logger.WithCtx(ctx).Info("cascade reconciled",
					"checked", report.Checked, "repaired", report.Repaired, "failed", report.Failed)
			}
			return nil
		})
	}
	return s
}

// Ping reports whether the database answers.
func (k *Kernel) Ping(context.Context) error {
	if err := database.Ping(k.DB); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}

// Close drains pending notifications and releases connections.
func (k *Kernel) Close() {
	k.Bus.Flush()
	if k.mailPool != nil {
		k.mailPool.Shutdown()
	}
	for i := len(k.closers) - 1; i >= 0; i-- {
		k.closers[i]()
	}
}

func recipients(raw string) []string {
	var out []string
	for _, addr := range strings.Split(raw, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
