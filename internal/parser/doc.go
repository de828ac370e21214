// Package parser splits skill documents into a verbatim metadata block and
// an ordered sequence of header-delimited sections.
//
// The parser recognizes only flat ATX-style headers (# through ######); it
// does not understand nested block structure, code fences, or inline
// formatting. The metadata block is opaque: it is carried byte-for-byte
// and never interpreted here.
package parser
