package domain

// CredentialStatus describes the configured credential for a provider.
// The key itself is never included.
type CredentialStatus struct {
	// Provider is the provider the credential is for.
	Provider AIProvider

	// Required is true if the provider needs a key.
	Required bool

	// Present is true if a non-empty key was supplied.
	Present bool

	// Masked is a display-safe rendering of the key.
	Masked string

	// Warning describes a likely misconfiguration, e.g. a key issued
	// by a different provider. Empty when nothing looks wrong.
	Warning string
}

// StoreStatus describes the vector store.
type StoreStatus struct {
	// Backend is the configured backend.
	Backend StoreBackend

	// Location is the store path or endpoint.
	Location string

	// Exists is false when no index has been built yet.
	Exists bool

	// Entries is the number of indexed chunks.
	Entries int

	// Dimensions is the store's vector size, 0 if unknown.
	Dimensions int

	// Model is the embedding model the store was built with, if recorded.
	Model string
}

// Status is a diagnostic snapshot of the configured pipeline.
type Status struct {
	Settings   Settings
	Credential CredentialStatus
	Store      StoreStatus
}
