// Package store owns the in-memory collection of memory items and
// implements the item state machine: creation, answer evaluation and the
// resulting reminder rescheduling or termination. It is the sole mutator of
// the collection; persistence and reminder delivery are reached through
// port interfaces implemented elsewhere.
package store
