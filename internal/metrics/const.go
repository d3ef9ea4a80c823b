package metrics

const Namespace = "tls_constraints"

const (
	StoreTypeRedis  = "redis"
	StoreTypeMemory = "memory"
)

const (
	StoreOperationTypeGet = "get"
	StoreOperationTypePut = "put"
)

const (
	DecisionOutcomeAllowed = "allowed"
	DecisionOutcomeDenied  = "denied"
)

const (
	EventOutcomeHandled  = "handled"
	EventOutcomeDeferred = "deferred"
)
