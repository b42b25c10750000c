package interfaces

//go:generate mockgen -package=mock -source=preferences.go -destination=mock/preferences.go

// PreferenceBackend is a durable text key-value store for user preferences
type PreferenceBackend interface {
	// Get returns the stored value and whether it exists
	Get(key string) (string, bool, error)
	// Set stores the value; it returns once the value is durable
	Set(key, value string) error
	// Delete removes the key
	Delete(key string) error
}
