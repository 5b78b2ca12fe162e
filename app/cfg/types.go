package cfg

import "time"

type Cfg struct {
	// News provider
	NewsAPIKey   string
	NewsAPIURL   string
	ProfilePath  string
	FetchTimeout int

	// Application configuration
	Port            string
	BaseUrl         string
	RefreshInterval int
	SessionTTL      int
	WorkerCount     int
	RedisURL        string
	ProxyCacheTTL   int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

func (c *Cfg) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *Cfg) RefreshIntervalDuration() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

func (c *Cfg) SessionTTLDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

func (c *Cfg) ProxyCacheTTLDuration() time.Duration {
	return time.Duration(c.ProxyCacheTTL) * time.Second
}
