package main

// Store owns the persisted dataset. Load and Save always act on the whole
// document; there is no partial read or write. When the backing storage is
// absent or unreadable, Load bootstraps a fresh empty dataset and persists
// it before returning, so the next read finds valid data.
type Store interface {
	Load() (*Dataset, error)
	Save(*Dataset) error
}
