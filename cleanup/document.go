// Package cleanup implements structural cleanup of XHTML document bodies:
// merging of adjacent identically styled spans and insertion of numbered
// chapter headings.
package cleanup

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ErrMalformedDocument marks documents which could not be parsed. A batch
// caller checks for it to decide whether to skip the document or abort.
var ErrMalformedDocument = errors.New("malformed document")

// Options selects which passes run over a single document.
type Options struct {
	MergeSpans bool
	Heading    bool
	HeadingOptions
}

// newDocument returns an empty tree configured for the XHTML found in real
// books: permissive parsing, legacy charsets, undeclared HTML entities.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        htmlNamedEntities,
		ValidateInput: false,
		Permissive:    true,
	}
	return doc
}

// ProcessDocument parses one XHTML document, runs the requested passes and
// serializes the result. counter is the running chapter counter, the returned
// value reflects a produced heading and is threaded by the caller to the next
// document in reading order. changed reports whether any pass modified the
// tree so untouched documents can keep their original bytes.
func ProcessDocument(data []byte, counter int, opts Options) (out []byte, newCounter int, changed bool, err error) {
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, counter, false, fmt.Errorf("%w: %s", ErrMalformedDocument, err)
	}
	if doc.Root() == nil {
		return nil, counter, false, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}

	// span merger runs to completion before heading insertion begins
	if opts.MergeSpans {
		changed = MergeSpans(doc)
	}
	if opts.Heading {
		headingChanged, produced := ApplyHeading(doc, opts.HeadingOptions, counter)
		changed = changed || headingChanged
		if produced > 0 {
			counter++
		}
	}

	out, err = doc.WriteToBytes()
	if err != nil {
		return nil, counter, false, fmt.Errorf("unable to serialize document: %w", err)
	}
	return out, counter, changed, nil
}
