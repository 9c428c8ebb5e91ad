package session

// Storage persists session values across runs under fixed keys.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
