/*
Package localstore provides typed, failure-tolerant persistence of small
values, such as dashboard preferences, over any key-value backend.

A Store serializes values (JSON by default) into a Persist. The Persist
can be kept in memory, in a directory of files, in a bbolt or SQLite
database, or in an S3 bucket; see the persist/ packages.

Failure handling

Get, Set, Remove, Clear and Keys never return errors. A value that is
missing or cannot be decoded reads as the caller's default, and a write
that fails leaves the previous value untouched. Every failure is logged
to the configured zap.Logger and, if a prometheus.Registerer was given,
counted in harvestkit_localstore_failures_total. Callers that need to
know whether a write reached the backend can use Put and Lookup, which
do return errors.

Namespaces

Keys are shared by everyone using the same Persist, and the last write
wins. Config.Prefix confines a Store's keys, and with them Keys and
Clear, to one namespace. Without a Prefix, Clear empties the entire
backend.

Concurrency

A Store may be used from multiple goroutines. There are no multi-key
transactions, and nothing coordinates separate processes sharing a
backend.
*/
package localstore
