package app

const (
	configPathServer       = "server"
	configPathServerAccept = "server.accept"
	configPathServerTcp    = "server.tcp"
)

////

type ServerConfig struct {
	Bind    string `toml:"bind"`
	Port    int    `toml:"port"`
	Handler string `toml:"handler"`
	Verbose bool   `toml:"verbose"`
}

////

type AcceptConfig struct {
	Backlog           int  `toml:"backlog"`
	ReuseAddress      bool `toml:"reuse_address"`
	MaxRetryDelayMs   int  `toml:"max_retry_delay_ms"`
	RetryBudget       int  `toml:"retry_budget"`
	MaxConnsPerSource int  `toml:"max_conns_per_source"`
}

////

type TcpConfig struct {
	NoDelay      bool `toml:"no_delay"`
	KeepAliveSec int  `toml:"keep_alive_sec"`
	Linger       int  `toml:"linger"`
	ReadBuffer   int  `toml:"read_buffer"`
	WriteBuffer  int  `toml:"write_buffer"`
}
