package shopkit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/shopkit/pkg/auth"
	"github.com/vango-dev/shopkit/pkg/cart"
	"github.com/vango-dev/shopkit/pkg/nav"
	"github.com/vango-dev/shopkit/pkg/persist"
	"github.com/vango-dev/shopkit/pkg/toast"
	"github.com/vango-dev/shopkit/pkg/wishlist"
)

// App owns the process-wide store instances: one cart, one wishlist,
// one session, all over one persistence backend. Construct it once at
// process start and share it by reference; consumers never touch the
// persistence backend directly.
type App struct {
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Session  *auth.Store

	backend   persist.Store
	navigator nav.Navigator
	logger    *slog.Logger
}

// AppOption configures the App.
type AppOption func(*appConfig)

type appConfig struct {
	backend     persist.Store
	authBackend auth.Backend
	navigator   nav.Navigator
	notifier    toast.Notifier
	logger      *slog.Logger
}

// WithBackend overrides the persistence backend chosen by the config.
func WithBackend(store persist.Store) AppOption {
	return func(c *appConfig) {
		c.backend = store
	}
}

// WithAuthBackend overrides the identity service client. Default: an
// HTTP client against Config.AuthURL.
func WithAuthBackend(backend auth.Backend) AppOption {
	return func(c *appConfig) {
		c.authBackend = backend
	}
}

// WithNavigator sets the navigation collaborator used by Redirect.
// Default: an internal queue the shell can drain.
func WithNavigator(navigator nav.Navigator) AppOption {
	return func(c *appConfig) {
		c.navigator = navigator
	}
}

// WithNotifier sets the mutation notifier shared by cart and wishlist.
func WithNotifier(n toast.Notifier) AppOption {
	return func(c *appConfig) {
		c.notifier = n
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) AppOption {
	return func(c *appConfig) {
		c.logger = logger
	}
}

// NewApp wires the stores from configuration. Each store loads its
// persisted snapshot lazily on first access.
func NewApp(cfg Config, opts ...AppOption) (*App, error) {
	ac := &appConfig{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(ac)
	}

	backend := ac.backend
	if backend == nil {
		var err error
		backend, err = backendFromConfig(cfg)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Metrics {
		backend = persist.Instrument(backend)
	}

	authBackend := ac.authBackend
	if authBackend == nil {
		authBackend = auth.NewHTTPBackend(cfg.AuthURL)
	}

	navigator := ac.navigator
	if navigator == nil {
		navigator = nav.NewQueue()
	}

	cartOpts := []cart.Option{cart.WithLogger(ac.logger), cart.WithNotifier(ac.notifier)}
	if cfg.Slots.Cart != "" {
		cartOpts = append(cartOpts, cart.WithSlot(cfg.Slots.Cart))
	}

	wishOpts := []wishlist.Option{wishlist.WithLogger(ac.logger), wishlist.WithNotifier(ac.notifier)}
	if cfg.Slots.Wishlist != "" {
		wishOpts = append(wishOpts, wishlist.WithSlot(cfg.Slots.Wishlist))
	}

	sessOpts := []auth.Option{auth.WithLogger(ac.logger)}
	if cfg.Slots.Session != "" {
		sessOpts = append(sessOpts, auth.WithSlot(cfg.Slots.Session))
	}

	return &App{
		Cart:      cart.New(backend, cartOpts...),
		Wishlist:  wishlist.New(backend, wishOpts...),
		Session:   auth.New(authBackend, backend, sessOpts...),
		backend:   backend,
		navigator: navigator,
		logger:    ac.logger,
	}, nil
}

func backendFromConfig(cfg Config) (persist.Store, error) {
	switch cfg.Backend {
	case "", "file":
		dir, err := cfg.stateDir()
		if err != nil {
			return nil, err
		}
		return persist.NewFileStore(dir)
	case "memory":
		return persist.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("shopkit: unknown backend %q", cfg.Backend)
	}
}

// Navigator returns the navigation collaborator.
func (a *App) Navigator() nav.Navigator {
	return a.navigator
}

// Redirect applies the session store's redirect decision through the
// navigation collaborator.
func (a *App) Redirect(ctx context.Context) {
	a.Session.RedirectTo(ctx, a.navigator)
}

// Close waits for pending snapshot writes and releases the backend.
func (a *App) Close() error {
	a.Cart.Wait()
	a.Wishlist.Wait()
	a.Session.Wait()
	return a.backend.Close()
}
