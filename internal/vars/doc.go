// Package vars provides durable storage for dialogue variables.
//
// A Store owns the durable copy of every variable; runtimes hold only a
// transient working set synchronized from the store at run start and on
// every write. Two backends are provided:
//
//   - Memory: a mutex-guarded map, for tests and ephemeral sessions
//   - SQLite: a single-file database with WAL mode, for sessions that must
//     survive process restarts
//
// Values are restricted to the dialogue scalar set (string, number, bool);
// the SQLite backend stores a kind tag alongside the rendered text so reads
// reconstruct the exact scalar type that was written.
package vars
