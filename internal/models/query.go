package models

// QueryStatus is the fetch status of a cache entry
type QueryStatus string

const (
	QueryStatusIdle    QueryStatus = "idle"
	QueryStatusLoading QueryStatus = "loading"
	QueryStatusSuccess QueryStatus = "success"
	QueryStatusError   QueryStatus = "error"
)
