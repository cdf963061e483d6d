// Package ledger holds the challenge ledger and the settlement engine.
//
// Everything here is synchronous and free of I/O. A Store mutates a
// LedgerState it is handed; callers are responsible for loading that state,
// holding exclusive access to it for the duration of an operation and
// persisting it afterwards (see the service and repository packages).
package ledger
