// Package legacy holds the conventions of the central server's flat record
// format: table names, date and time encodings, and the canonical JSON used
// for outbound documents.
package legacy
