package xrsession

import "time"

// config holds the tunables NewConnector accepts as functional options,
// grounded on the Attr/Config pattern used for engine-wide configuration
// elsewhere in the pack (gopkg.in-yaml-backed descriptors aside, plain
// option funcs are how that codebase composes a Config without a file).
type config struct {
	appName               string
	roomScale             bool
	instanceRetryInterval time.Duration
	sessionRetryInterval  time.Duration
	logger                Logger
}

// Option configures a Connector at construction time.
type Option func(*config)

func defaultConfig() config {
	return config{
		appName:               "xrsession",
		roomScale:             false,
		instanceRetryInterval: 10 * time.Second,
		sessionRetryInterval:  5 * time.Second,
		logger:                NewSlogLogger(nil),
	}
}

// WithApplicationName sets the XrInstanceCreateInfo application name.
// Defaults to "xrsession".
func WithApplicationName(name string) Option {
	return func(c *config) { c.appName = name }
}

// WithRoomScale selects the STAGE reference space type over LOCAL for
// BasePlaySpace/PlaySpace, for room-scale play areas.
func WithRoomScale() Option {
	return func(c *config) { c.roomScale = true }
}

// WithInstanceRetryInterval overrides the 10s default cadence at which a
// lost instance is recreated.
func WithInstanceRetryInterval(d time.Duration) Option {
	return func(c *config) { c.instanceRetryInterval = d }
}

// WithSessionRetryInterval overrides the 5s default cadence at which a
// lost session is recreated.
func WithSessionRetryInterval(d time.Duration) Option {
	return func(c *config) { c.sessionRetryInterval = d }
}

// WithLogger overrides the default slog-backed Logger.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
