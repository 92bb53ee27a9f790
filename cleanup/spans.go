package cleanup

import (
	"strings"

	"github.com/beevik/etree"
)

// MergeSpans collapses every maximal run of adjacent span elements carrying
// an identical style attribute into a single span. Runs may be interspersed
// with whitespace-only text nodes, their text is preserved with line breaks
// normalized to spaces since hard returns have no effect on rendering.
// Style values are compared as opaque strings, "color:red" and "color: red"
// never merge. Returns whether the tree was modified.
func MergeSpans(doc *etree.Document) bool {
	changed := false
	for {
		// A merge shifts run boundaries, repeat full passes until one
		// completes without a single merge.
		merged := false
		consumed := make(map[*etree.Element]bool)
		for _, span := range doc.FindElements("//span") {
			if consumed[span] {
				continue
			}
			if mergeRunAt(span, consumed) {
				merged = true
				changed = true
			}
		}
		if !merged {
			return changed
		}
	}
}

// mergeRunAt extends a run of style-identical spans forward from first and
// collapses it in place. Spans removed from the tree are recorded in consumed
// so the caller can skip their stale references.
func mergeRunAt(first *etree.Element, consumed map[*etree.Element]bool) bool {
	parent := first.Parent()
	if parent == nil {
		return false
	}
	styleAttr := first.SelectAttr("style")
	if styleAttr == nil {
		// not a merge candidate, neither start nor continuation
		return false
	}
	style := styleAttr.Value

	last := first
scan:
	for i := first.Index() + 1; i < len(parent.Child); i++ {
		switch t := parent.Child[i].(type) {
		case *etree.CharData:
			// tolerate whitespace between spans
			if strings.TrimSpace(t.Data) != "" {
				break scan
			}
		case *etree.Element:
			if t.Tag != "span" {
				break scan
			}
			attr := t.SelectAttr("style")
			if attr == nil || attr.Value != style {
				break scan
			}
			last = t
		default:
			break scan
		}
	}
	if last == first {
		return false
	}

	start, end := first.Index(), last.Index()

	// collect, in tree order, normalized separator text and children of the
	// merged spans
	var content []etree.Token
	for i := start + 1; i <= end; i++ {
		switch t := parent.Child[i].(type) {
		case *etree.CharData:
			content = append(content, etree.NewText(normalizeLineBreaks(t.Data)))
		case *etree.Element:
			consumed[t] = true
			children := make([]etree.Token, len(t.Child))
			copy(children, t.Child)
			content = append(content, children...)
		}
	}
	for _, tok := range content {
		// AddChild detaches the token from its previous parent
		first.AddChild(tok)
	}

	// drop emptied spans and separators between first and last
	for i := start + 1; i <= end; i++ {
		parent.RemoveChildAt(start + 1)
	}
	return true
}

func normalizeLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
