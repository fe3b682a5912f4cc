// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - catalog.Repository: catalog rows, lookups and book writes (internal/catalog/service.go)
//   - http.Pinger: database health probe (internal/http/health.go)
//
// ## Write Recorders
//
//   - catalog.Recorder: told about every accepted or rejected write
//     (internal/catalog/service.go). The audit log and the Prometheus
//     collector both implement it.
//
// ## Seeding
//
//   - seed.LookupWriter: idempotent author and label inserts (internal/seed/seed.go)
//   - seed.BookCreator: book creation through the catalog service (internal/seed/seed.go)
//
// ## Background Tasks
//
//   - tasks.AuditEventCleaner: audit retention (internal/tasks/cleanup_audit.go)
//
// # Adding a New Recorder
//
// To react to catalog writes (e.g. a webhook notifier):
//
//  1. Implement catalog.Recorder:
//
//     type Notifier struct { client *http.Client }
//
//     func (n *Notifier) RecordMutation(ctx context.Context, m catalog.Mutation)
//     func (n *Notifier) RecordRejection(ctx context.Context, action catalog.MutationAction, err error)
//
//  2. Pass it to catalog.NewService via catalog.WithRecorders in entrypoint.go
//
//  3. Add a compile-time check to checks.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
