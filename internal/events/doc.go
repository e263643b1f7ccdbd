// Package events defines the reminder event contract and a simple in-memory
// emitter. The reminder scheduler publishes an event when an item's due time
// arrives; external glue (a notifier, a UI bridge) registers handlers to
// react without the scheduler knowing about them.
package events
