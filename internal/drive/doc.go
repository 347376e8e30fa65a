// Package drive provides a convenience client for Google Drive:
// file and folder CRUD, search, sharing, revisions, quota, labels and
// change notifications, plus the three pieces of real logic the rest
// of the package is built on:
//
//   - Resolver translates slash-delimited paths into Drive's flat
//     ID/parent-graph model, with get-or-create semantics for folder
//     chains and a concurrent path cache.
//   - Retryer wraps every remote call with bounded retry and
//     exponential backoff, classifying failures as transient or
//     permanent.
//   - Coordinator fans batch operations out concurrently with bounded
//     parallelism, capturing per-item outcomes so one failure never
//     aborts its siblings.
//
// Remote calls the resolver and batch workers make go through the
// Gateway interface, so tests run against fakes instead of the Drive
// API.
package drive
