package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories depend on this package
// rather than on a concrete go-redis client type.
type Client interface {
	redis.UniversalClient
}

// Pipeliner is a MULTI that several repositories queue writes on before the
// caller runs Exec once.
type Pipeliner interface {
	redis.Pipeliner
}

// Nil is returned by reads of a missing key
const Nil = redis.Nil
