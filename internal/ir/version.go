package ir

// Version constants for the record format and the store.
const (
	// FormatVersion is the entry/action hashing format version.
	FormatVersion = "1"

	// StoreVersion is the ledgerstore release version.
	StoreVersion = "0.1.0"
)
