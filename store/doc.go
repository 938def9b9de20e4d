// Package store houses conversation-thread storage over message chains. The
// in-memory implementation is best suited for tests and ephemeral demo
// processes; durable backends (Redis, Postgres, etc.) can be added in
// sub-packages without changing any calling code.
package store
