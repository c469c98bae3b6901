// Package storage provides the persistent key-value stores used by the
// client: a plain SQLite store for cached, non-sensitive values and two
// secure stores for tokens (AES-GCM over SQLite, or the OS keyring).
//
// All stores implement Store. A missing key is reported as ("", false, nil);
// only I/O failures produce errors.
package storage
