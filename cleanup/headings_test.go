package cleanup

import (
	"testing"

	"epc/config"
)

func defaultHeadingOptions() HeadingOptions {
	return HeadingOptions{
		Prefix: "Chapter",
		Style:  config.NumberingStyleNumeric,
	}
}

func TestLooksLikeHeading(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		prefix   string
		expected bool
	}{
		{"decimal number", "Chapter 1", "Chapter", true},
		{"roman number", "Chapter IV", "Chapter", true},
		{"word number", "Chapter One", "Chapter", true},
		{"case insensitive", "chapter 12", "Chapter", true},
		{"leading whitespace", "  Chapter 3", "Chapter", true},
		{"trailing text allowed", "Chapter One - The Beginning", "Chapter", true},
		{"plain text", "It was a dark and stormy night", "Chapter", false},
		{"prefix without number", "Chapter", "Chapter", false},
		{"number without space", "Chapter1", "Chapter", false},
		{"different prefix", "Part 1", "Chapter", false},
		{"custom prefix", "Part 1", "Part", true},
		{"prefix with regexp metacharacters", "Ch. 5", "Ch.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LooksLikeHeading(tt.text, tt.prefix)
			if got != tt.expected {
				t.Errorf("LooksLikeHeading(%q, %q) = %v, want %v", tt.text, tt.prefix, got, tt.expected)
			}
		})
	}
}

func TestDetectStartNumber(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		prefix   string
		expected int
		ok       bool
	}{
		{"number in file name", "OEBPS/chapter_5.xhtml", "", "Chapter", 5, true},
		{"first number in file name wins", "OEBPS/ch12_part3.xhtml", "", "Chapter", 12, true},
		{"directory digits are ignored", "OEBPS2/intro.xhtml",
			`<html><body><p>Chapter 4</p></body></html>`, "Chapter", 4, true},
		{"number from heading text", "OEBPS/intro.xhtml",
			`<html><body><p>Chapter 7</p></body></html>`, "Chapter", 7, true},
		{"heading match anywhere in text", "OEBPS/intro.xhtml",
			`<html><body><p>Here ends Chapter 3 of the tale</p></body></html>`, "Chapter", 3, true},
		{"custom prefix", "OEBPS/intro.xhtml",
			`<html><body><p>Part 2</p></body></html>`, "Part", 2, true},
		{"first paragraph only", "OEBPS/intro.xhtml",
			`<html><body><div>Chapter 9</div><p>plain text</p><p>Chapter 9</p></body></html>`, "Chapter", 0, false},
		{"no number anywhere", "OEBPS/intro.xhtml",
			`<html><body><p>Once upon a time</p></body></html>`, "Chapter", 0, false},
		{"no body", "OEBPS/intro.xhtml",
			`<html><head><title>x</title></head></html>`, "Chapter", 0, false},
		{"unparseable content", "OEBPS/intro.xhtml", "not markup at all", "Chapter", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectStartNumber(tt.file, []byte(tt.content), tt.prefix)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("DetectStartNumber(%q, ..., %q) = (%d, %v), want (%d, %v)",
					tt.file, tt.prefix, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestApplyHeading(t *testing.T) {
	t.Run("empty first paragraph becomes heading", func(t *testing.T) {
		doc := parseDoc(t, `<html><body><p></p><p>x</p></body></html>`)

		changed, produced := ApplyHeading(doc, defaultHeadingOptions(), 5)
		if !changed || produced != 1 {
			t.Fatalf("ApplyHeading() = (%v, %d), want (true, 1)", changed, produced)
		}

		first := doc.FindElement("//body/p")
		if got := elementText(first); got != "Chapter 5" {
			t.Errorf("first paragraph text = %q, want %q", got, "Chapter 5")
		}
	})

	t.Run("whitespace-only paragraph becomes heading", func(t *testing.T) {
		doc := parseDoc(t, "<html><body><p>  \n\t </p></body></html>")

		changed, produced := ApplyHeading(doc, defaultHeadingOptions(), 1)
		if !changed || produced != 1 {
			t.Fatalf("ApplyHeading() = (%v, %d), want (true, 1)", changed, produced)
		}
		if got := elementText(doc.FindElement("//body/p")); got != "Chapter 1" {
			t.Errorf("first paragraph text = %q, want %q", got, "Chapter 1")
		}
	})

	t.Run("paragraph with only empty children becomes heading", func(t *testing.T) {
		doc := parseDoc(t, `<html><body><p><span style="x"> </span></p></body></html>`)

		changed, produced := ApplyHeading(doc, defaultHeadingOptions(), 2)
		if !changed || produced != 1 {
			t.Fatalf("ApplyHeading() = (%v, %d), want (true, 1)", changed, produced)
		}
		first := doc.FindElement("//body/p")
		if first.SelectElement("span") != nil {
			t.Error("heading paragraph kept stale children")
		}
		if got := elementText(first); got != "Chapter 2" {
			t.Errorf("first paragraph text = %q, want %q", got, "Chapter 2")
		}
	})

	t.Run("existing heading is left alone", func(t *testing.T) {
		opts := defaultHeadingOptions()
		opts.InsertNonEmpty = true
		doc := parseDoc(t, `<html><body><p>Chapter 1</p><p>x</p></body></html>`)

		changed, produced := ApplyHeading(doc, opts, 7)
		if changed || produced != 0 {
			t.Errorf("ApplyHeading() = (%v, %d), want (false, 0)", changed, produced)
		}
		if n := len(doc.FindElements("//body/p")); n != 2 {
			t.Errorf("paragraph count = %d, want 2", n)
		}
	})

	t.Run("insert before non-empty plain paragraph", func(t *testing.T) {
		opts := defaultHeadingOptions()
		opts.InsertNonEmpty = true
		doc := parseDoc(t, `<html><body><p>Once upon a time</p></body></html>`)

		changed, produced := ApplyHeading(doc, opts, 3)
		if !changed || produced != 1 {
			t.Fatalf("ApplyHeading() = (%v, %d), want (true, 1)", changed, produced)
		}

		paragraphs := doc.FindElements("//body/p")
		if len(paragraphs) != 2 {
			t.Fatalf("paragraph count = %d, want 2", len(paragraphs))
		}
		if got := elementText(paragraphs[0]); got != "Chapter 3" {
			t.Errorf("inserted heading = %q, want %q", got, "Chapter 3")
		}
		if got := elementText(paragraphs[1]); got != "Once upon a time" {
			t.Errorf("original paragraph = %q, want %q", got, "Once upon a time")
		}
	})

	t.Run("non-empty paragraph without insert flag", func(t *testing.T) {
		doc := parseDoc(t, `<html><body><p>Once upon a time</p></body></html>`)

		changed, produced := ApplyHeading(doc, defaultHeadingOptions(), 1)
		if changed || produced != 0 {
			t.Errorf("ApplyHeading() = (%v, %d), want (false, 0)", changed, produced)
		}
	})

	t.Run("no body", func(t *testing.T) {
		doc := parseDoc(t, `<html><head><title>x</title></head></html>`)

		changed, produced := ApplyHeading(doc, defaultHeadingOptions(), 1)
		if changed || produced != 0 {
			t.Errorf("ApplyHeading() = (%v, %d), want (false, 0)", changed, produced)
		}
	})

	t.Run("first element child is not a paragraph", func(t *testing.T) {
		doc := parseDoc(t, `<html><body><div>x</div><p></p></body></html>`)

		changed, produced := ApplyHeading(doc, defaultHeadingOptions(), 1)
		if changed || produced != 0 {
			t.Errorf("ApplyHeading() = (%v, %d), want (false, 0)", changed, produced)
		}
	})

	t.Run("heading with style and trailing text", func(t *testing.T) {
		opts := HeadingOptions{
			Prefix: "Part",
			Style:  config.NumberingStyleRoman,
			After:  "begins",
		}
		doc := parseDoc(t, `<html><body><p></p></body></html>`)

		changed, produced := ApplyHeading(doc, opts, 4)
		if !changed || produced != 1 {
			t.Fatalf("ApplyHeading() = (%v, %d), want (true, 1)", changed, produced)
		}
		if got := elementText(doc.FindElement("//body/p")); got != "Part IV begins" {
			t.Errorf("heading text = %q, want %q", got, "Part IV begins")
		}
	})
}
