// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The two load-bearing services are the loan service, which is the exclusive
// owner of the loan ledger and (through the book store's reserve/release
// pair) of the available-copy counters, and the notification service, which
// derives due-soon and overdue notices from the ledger once per day.
//
// Services receive their dependencies (stores, clock, logger) through
// constructor injection, translate store sentinels into service-level
// errors, and wrap composite writes in database transactions via
// store.RunInTransaction.
package service
