package port

// WalletIDKey is the only key the gateway persists.
const WalletIDKey = "wallet_id"

// KeyValueStore is the injected replacement for the browser's localStorage.
// Implementations must be safe for concurrent use.
type KeyValueStore interface {
	Set(key, value string)
	Get(key string) (string, bool)
	Delete(key string)
}
