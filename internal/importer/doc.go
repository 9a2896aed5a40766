// Package importer reads diary export files into entry drafts.
//
// An export file is a sequence of blocks:
//
//	##### DATE: 2023-07-01 ##########
//	My Title
//	--------
//	Hello world
//	##### END #######################
//
// The separator line between the title and the body is optional. Text between
// blocks is ignored. Blocks with a malformed date, a missing title or a missing
// end marker are skipped. LF, CRLF and CR line endings are accepted, as is a
// leading byte order mark.
//
// Parsing is a line-oriented state machine; see Parse, Validate and Scan.
package importer
