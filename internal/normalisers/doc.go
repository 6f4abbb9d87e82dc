// Package normalisers provides document text extraction. Each subpackage
// knows how to read page text out of one document format and implements
// the driven.Extractor port.
package normalisers
