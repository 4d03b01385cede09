/*
Package transform shapes in-memory sequences of records for display:
grouping, sorting, filtering, searching and numeric aggregation.

Records can be loosely typed (Record, typically decoded from JSON, read
with Key) or Go structs (read with Func). Every function leaves its input
untouched and returns a new slice or Groups, so calls can be chained.

Display data is often heterogeneous, so nothing here fails on odd input:
aggregations count a missing or non-numeric field as 0 (Summarize reports
how many were), and sorting orders mixed types by kind as documented on
Compare.
*/
package transform
