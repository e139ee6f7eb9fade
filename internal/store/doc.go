// Package store holds entity records in an in-memory SQLite engine whose
// entire state is exported to a single backing file after every successful
// mutation and reloaded from that file at startup.
//
// The export-per-mutation design is deliberate: the backing file is always a
// complete, self-contained database, and "resume" is simply loading it back.
// The cost is O(database size) per single-row write, which is acceptable at
// the data volumes backdesk targets. The file and the engine are consistent
// only immediately after a successful export; two processes sharing one
// backing file are unsupported (the last export wins).
//
// A Session is an explicit handle, constructed once per process and passed
// down to whatever needs it. There is no package-level singleton.
package store
