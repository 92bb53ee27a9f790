package cleanup

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"epc/config"
)

// HeadingOptions describes how a chapter heading paragraph is built.
type HeadingOptions struct {
	Prefix         string
	Style          config.NumberingStyle
	After          string
	InsertNonEmpty bool
}

// LooksLikeHeading reports whether text already reads as a numbered chapter
// heading for the given prefix. Deliberately loose - it accepts decimal,
// Roman and word numbered headings regardless of the configured numbering
// style so hand-authored headings are not duplicated.
func LooksLikeHeading(text, prefix string) bool {
	text = strings.TrimSpace(text)
	quoted := regexp.QuoteMeta(prefix)
	for _, pattern := range []string{
		`(?i)^` + quoted + `\s+\d+`,
		`(?i)^` + quoted + `\s+[IVX]+`,
		`(?i)^` + quoted + `\s+[A-Z][a-z]+`,
	} {
		if regexp.MustCompile(pattern).MatchString(text) {
			return true
		}
	}
	return false
}

// ApplyHeading inspects the first element child of the document body and
// produces at most one chapter heading paragraph:
//
//   - empty or whitespace-only first paragraph becomes the heading;
//   - first paragraph that already reads as a heading is left alone;
//   - otherwise, when InsertNonEmpty is set, a new heading paragraph is
//     inserted before it.
//
// number is the current chapter counter value, the caller increments it when
// produced is 1.
func ApplyHeading(doc *etree.Document, opts HeadingOptions, number int) (changed bool, produced int) {
	body := doc.FindElement("//body")
	if body == nil {
		return false, 0
	}

	var first *etree.Element
	for _, child := range body.ChildElements() {
		first = child
		break
	}
	if first == nil || first.Tag != "p" {
		return false, 0
	}

	heading := HeadingText(opts.Prefix, FormatChapterNumber(number, opts.Style), opts.After)

	text := strings.TrimSpace(elementText(first))
	if text == "" {
		for len(first.Child) > 0 {
			first.RemoveChildAt(0)
		}
		first.SetText(heading)
		return true, 1
	}

	if opts.InsertNonEmpty && !LooksLikeHeading(text, opts.Prefix) {
		p := etree.NewElement("p")
		p.SetText(heading)
		body.InsertChildAt(first.Index(), p)
		return true, 1
	}
	return false, 0
}

var fileNumber = regexp.MustCompile(`\d+`)

// DetectStartNumber infers the chapter number of the named document so a run
// over the remaining documents can continue an existing numbering sequence.
// The first decimal number in the base file name wins ("chapter_5.xhtml" is
// chapter 5), otherwise a "prefix N" match anywhere in the text of the first
// body paragraph. ok is false when neither yields a number.
func DetectStartNumber(name string, data []byte, prefix string) (n int, ok bool) {
	if m := fileNumber.FindString(path.Base(name)); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v > 0 {
			return v, true
		}
	}

	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return 0, false
	}
	body := doc.FindElement("//body")
	if body == nil {
		return 0, false
	}
	var first *etree.Element
	for _, child := range body.ChildElements() {
		if child.Tag == "p" {
			first = child
			break
		}
	}
	if first == nil {
		return 0, false
	}

	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + `\s+(\d+)`)
	if m := re.FindStringSubmatch(elementText(first)); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
			return v, true
		}
	}
	return 0, false
}

// elementText concatenates all descendant character data of an element.
func elementText(el *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.Child {
			switch t := child.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return sb.String()
}
