// Package binding bridges a single scalar model property to a
// UI-observable value.
//
// A PropertyBinding owns a (possibly relative) path, resolves it
// against a model through an optional context, fetches the current
// value asynchronously, and raises a change notification when the
// value differs from the last one fetched. When configured for
// automatic type determination it additionally performs a one-shot,
// concurrent type lookup against a metadata resolver; change
// notifications are held back while that lookup is in flight.
//
// Bindings never surface asynchronous collaborator failures to the
// caller: an update request always settles successfully, a failed
// value read is discarded silently, and a failed type lookup is logged
// and then ignored. The only loud failure is SetValue, which this
// binding kind does not support.
package binding
