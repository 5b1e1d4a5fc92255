// Package docparse parses structured documentation comments into their named
// sections.
//
// A structured doc comment consists of an optional one-line summary, an
// optional free-form description, and then zero or more of the headed
// sections Args, Returns, Yields, and Raises, in that fixed relative order.
// Parsing is a single left-to-right pass: lines are consumed once and never
// revisited, so a header that appears out of order is absorbed into the body
// of whichever section is currently open rather than starting a new one.
package docparse
