// Package tabjson converts tables into nested JSON records.
//
// A table is a header row plus rows of cells. Each header is a key path: word
// segments joined by dots. Columns that share a prefix land in the same
// nested object, so the headers
//
//	id | addr.city | addr.zip
//
// turn the row 1, "Paris", "75001" into
//
//	{"id":1,"addr":{"city":"Paris","zip":"75001"}}
//
// # Headers
//
// [IsValidKeyPath] checks a single header against [A-Za-z0-9_]+ segments.
// [IsHeaderRowValid] accepts a row when every non-empty header is valid and
// at least one header is set. Empty headers skip their column. Use
// [ValidateHeaderRow] to learn why a row was rejected.
//
// # Records
//
// [BuildRecords] returns one [Record] per row, in row order. A Record is an
// ordered tree: each [Node] is either a leaf holding a cell value or a branch
// holding another Record. Keys keep the order in which columns introduced
// them, and JSON and YAML output follow that order.
//
// Two headers conflict when one is a strict prefix of the other, such as "a"
// and "a.b". A [Builder] with [ConflictReject], the default, returns a
// *[ConflictError]. [ConflictLastWins] lets the column further right replace
// the earlier value. Identical headers never conflict: the last column wins.
//
// # Output
//
// [FormatLines] renders records as a JSON array with one element per line,
// ready to fill one spreadsheet cell per line:
//
//	[
//	{"a":1},
//	{"b":2}
//	]
//
// [Write] and [Marshal] accept a [Format]: [Lines], [JSON], [JSONL], or
// [YAML]. Use [ParseFormat] to convert a CLI flag string into a Format.
//
// # Conversion runs
//
// A [Converter] reads tables from a [Source], converts them concurrently, and
// writes one [Result] per table to a [Sink]. Tables with bad headers come out
// invalid, with a zero row count and a Reason, while the rest convert
// normally. [WriteReport] summarises a run as a table, Markdown, or CSV.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrInvalidKeyPath]: a header is not a key path
//   - [ErrEmptyHeaderRow]: no header is set
//   - [ErrConflictingKeyPath]: two headers nest incompatibly
//   - [ErrSourceUnavailable]: the source could not supply tables
//   - [ErrSinkWrite]: the sink rejected a result
//   - [ErrUnsupportedFormat]: unknown format string
//   - [ErrUnsupportedReport]: unknown report style
//   - [ErrUnknownConflictPolicy]: unknown conflict policy name
//
// Only the source and sink errors are returned by [Converter.Run]; header
// problems are reported through each Result.
package tabjson
