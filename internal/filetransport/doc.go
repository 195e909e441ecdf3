// Package filetransport exchanges sync records through a directory.
//
// Layout:
//
//	<root>/site_info.yaml   site id and uuid assigned by the central server
//	<root>/inbox/           batch files from the central server (.json, .yaml, .yml)
//	<root>/outbox/          push files written by this site (.jsonl)
//
// Inbox files are read in file name order and never modified; the pull
// cursor is a record offset into their concatenation, so new files must
// sort after existing ones.
package filetransport
