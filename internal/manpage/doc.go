// Package manpage recovers structure from rendered manual pages.
//
// A rendered manpage is plain text with no markup: sections, options and
// cross-references are encoded purely through layout convention (casing,
// indentation, blank-line spacing). This package turns one such document
// into data the viewer can navigate:
//
//  1. NormalizeLines splits the raw text into logical lines.
//  2. DetectSections infers the section hierarchy from layout heuristics
//     and assigns stable slug IDs.
//  3. ClassifyTokens partitions a single line into typed spans for
//     highlighting.
//  4. Search and AggregateFilterLines implement the find and filter
//     workflows over the line sequence.
//
// Every function here is a pure function over immutable inputs: no I/O, no
// shared state, fresh output on every call. The host re-invokes them
// whenever the document or the query changes.
package manpage
