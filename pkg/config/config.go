package config

import (
	"time"
)

type DB struct {
	Url     string `envconfig:"URL" default:"debtfree.db"`
	LogMode bool   `envconfig:"LOG_MODE" default:"false"`
}

// Redis configures the remote mirror. An empty URL keeps the mirror in process.
type Redis struct {
	URL          string        `envconfig:"URL"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"debtfree:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
	StreamMaxLen int64         `envconfig:"STREAM_MAX_LEN" default:"10000"`
}

type Sync struct {
	// DeviceID tags every document this process writes so its own changes
	// are not merged back. Random when unset.
	DeviceID      string        `envconfig:"DEVICE_ID"`
	RemoteTimeout time.Duration `envconfig:"REMOTE_TIMEOUT" default:"10s"`
}

type Auth struct {
	JwtSecret string `envconfig:"JWT_SECRET"`
	JwtIssuer string `envconfig:"JWT_ISSUER"`
	// Token is a signed identity token used by the CLI to open a session.
	Token string `envconfig:"TOKEN"`
}

type Ledger struct {
	Currency string `envconfig:"CURRENCY" default:"INR"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[debtfree]"`
}

type Server struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"3000"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type App struct {
	Env    string  `envconfig:"APP_ENV" default:"development"`
	Server *Server `envconfig:"SERVER"`
	Log    *Log    `envconfig:"LOG"`
	DB     *DB     `envconfig:"DATABASE"`
	Redis  *Redis  `envconfig:"REDIS"`
	Sync   *Sync   `envconfig:"SYNC"`
	Auth   *Auth   `envconfig:"AUTH"`
	Ledger *Ledger `envconfig:"LEDGER"`

	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
}
