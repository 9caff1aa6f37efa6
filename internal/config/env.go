package config

import (
	"os"
	"strconv"
)

// envVar binds one environment variable to a Config field. set receives the
// non-empty value; values that do not parse leave the field alone.
type envVar struct {
	key string
	set func(string)
}

func stringVar(p *string) func(string) {
	return func(v string) { *p = v }
}

func intVar(p *int) func(string) {
	return func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*p = n
		}
	}
}

func boolVar(p *bool) func(string) {
	return func(v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			*p = b
		}
	}
}

func (c *Config) envVars() []envVar {
	return []envVar{
		{"TAXONOMY_PATH", stringVar(&c.TaxonomyPath)},
		{"DATABASE_URL", stringVar(&c.DatabaseURL)},
		{"SQLITE_PATH", stringVar(&c.SQLitePath)},
		{"REDIS_URL", stringVar(&c.RedisURL)},
		{"CACHE_TTL", stringVar(&c.CacheTTL)},
		{"PORT", intVar(&c.Port)},
		{"CORS_ORIGINS", func(v string) { c.CORSOrigins = splitList(v) }},
		{"RABBITMQ_URL", stringVar(&c.RabbitMQURL)},
		{"REQUEST_QUEUE", stringVar(&c.RequestQueue)},
		{"STATUS_EXCHANGE", stringVar(&c.StatusExchange)},
		{"WORKER_CONCURRENCY", intVar(&c.WorkerConcurrency)},
		{"S3_BUCKET", stringVar(&c.S3Bucket)},
		{"S3_ENDPOINT", stringVar(&c.S3Endpoint)},
		{"S3_REGION", stringVar(&c.S3Region)},
		{"S3_ACCESS_KEY_ID", stringVar(&c.S3AccessKey)},
		{"S3_SECRET_ACCESS_KEY", stringVar(&c.S3SecretKey)},
		{"USE_BROWSER", boolVar(&c.UseBrowser)},
		{"LOG_LEVEL", stringVar(&c.LogLevel)},
		{"LOG_FORMAT", stringVar(&c.LogFormat)},
	}
}

// ApplyEnv overrides fields from environment variables that are set
func (c *Config) ApplyEnv() {
	for _, ev := range c.envVars() {
		if v := os.Getenv(ev.key); v != "" {
			ev.set(v)
		}
	}
}
