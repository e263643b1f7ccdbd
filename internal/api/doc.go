// Package api implements the HTTP delivery layer: request/response models,
// handlers and error mapping over the memory store.
package api
