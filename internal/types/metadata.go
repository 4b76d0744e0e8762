package types

// Metadata is a map of string to string and handles the metadata
// for all entities in a consistent way
type Metadata map[string]string
