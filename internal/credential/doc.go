// Package credential implements the in-memory store for named
// authentication configurations.
//
// The store keeps two views of every credential: a masked view for display
// (List, Get) and the raw configuration for signing (FullConfig). Secret
// fields are masked so that values of four characters or fewer are hidden
// entirely and longer values keep only their first and last two characters.
//
// Storage is process-lifetime and unencrypted. Credentials are lost on
// restart; persisting them is the responsibility of a future storage
// backend.
package credential
