package config

import "time"

// DBConfig contains PostgreSQL configuration for the payments and staff ledger.
type DBConfig struct {
	// Enabled turns the ledger on; without it the payments and staff pages are hidden.
	Enabled  bool   `env:"ENABLED"  envDefault:"true"`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"wiqayah"`
	Password string `env:"PASSWORD" envDefault:"wiqayah"`
	Name     string `env:"NAME"     envDefault:"wiqayah_admin"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
	// The ledger sees a handful of operators, so the pool stays small.
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"    envDefault:"4"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"    envDefault:"1"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"10m"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT"   envDefault:"5s"`
}

// RedisConfig contains Redis configuration for per-browser token storage.
type RedisConfig struct {
	// Enabled selects Redis; without it tokens live in process memory and
	// sessions do not survive a restart.
	Enabled            bool     `env:"ENABLED"              envDefault:"true"`
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	// KeyPrefix namespaces every storage key. A trailing ":" is added when missing.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"wiqayah:storage:"`
	// PoolSize bounds connections per node; token reads are tiny and rare.
	PoolSize    int           `env:"POOL_SIZE"    envDefault:"8"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
}
