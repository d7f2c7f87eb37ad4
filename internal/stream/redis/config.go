package redis

const (
	DefaultRequestStream = "guardrail-events"
	DefaultResultStream  = "guardrail-results"
	DefaultGroup         = "guardrail-workers"
)

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	ResultStream  string
	Group         string
	ConsumerName  string
	// MaxLen caps published streams approximately; 0 leaves them unbounded.
	MaxLen int64
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, group string, consumerName string) *RedisStreamConfig {
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		ResultStream:  DefaultResultStream,
		Group:         group,
		ConsumerName:  consumerName,
	}
}
