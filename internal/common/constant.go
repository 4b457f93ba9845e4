package common

// AuthHeaderName is the HTTP header used to carry the bearer token on
// outbound requests to the backing store.
const AuthHeaderName = "Authorization"

// SyncLogLimit bounds the per-record diagnostic sync trail. Older lines are
// dropped once the limit is reached.
const SyncLogLimit = 20
