// Package epub reads and rewrites EPUB containers.
package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
)

const (
	mimetypeContent = "application/epub+zip"
	containerPath   = "META-INF/container.xml"
)

// isContentDoc reports whether a manifest media type names a processable
// content document. Older books occasionally declare text/html.
func isContentDoc(mediaType string) bool {
	return mediaType == "application/xhtml+xml" || mediaType == "text/html"
}

type manifestItem struct {
	id        string
	href      string
	mediaType string
}

// Metadata holds Dublin Core package metadata used for output file naming.
type Metadata struct {
	Title      string
	Creators   []string
	Language   string
	Identifier string
	Date       string
}

// Book provides access to a single EPUB container.
type Book struct {
	Path string

	rc      *zip.ReadCloser
	files   map[string]*zip.File
	opfPath string
	opfDir  string
	items   []manifestItem
	spine   []string
	meta    Metadata
}

// Open opens the EPUB container and parses enough of its package document to
// enumerate content in reading order.
func Open(name string) (*Book, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open container (%s): %w", name, err)
	}

	b := &Book{
		Path:  name,
		rc:    rc,
		files: make(map[string]*zip.File, len(rc.File)),
	}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		b.files[f.Name] = f
	}

	if err := b.parse(); err != nil {
		rc.Close()
		return nil, err
	}
	return b, nil
}

// Close releases the underlying archive.
func (b *Book) Close() error {
	return b.rc.Close()
}

// Metadata returns package metadata.
func (b *Book) Metadata() Metadata {
	return b.meta
}

// OPFPath returns archive path of the package document.
func (b *Book) OPFPath() string {
	return b.opfPath
}

// Has reports whether the container holds a file under the given archive path.
func (b *Book) Has(name string) bool {
	_, ok := b.files[name]
	return ok
}

// ReadFile returns contents of the file stored under the given archive path.
func (b *Book) ReadFile(name string) ([]byte, error) {
	f, ok := b.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file in container: %s", name)
	}
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Documents returns archive paths of XHTML content documents in reading
// order. Spine order comes first, manifest documents missing from the spine
// follow sorted naturally so numbered chapter files keep their intended
// sequence.
func (b *Book) Documents() []string {
	inSpine := make(map[string]bool, len(b.spine))
	docs := make([]string, 0, len(b.items))
	for _, name := range b.spine {
		inSpine[name] = true
		docs = append(docs, name)
	}

	var rest []string
	for _, it := range b.items {
		if !isContentDoc(it.mediaType) {
			continue
		}
		name := b.resolve(it.href)
		if inSpine[name] {
			continue
		}
		if _, ok := b.files[name]; !ok {
			continue
		}
		rest = append(rest, name)
	}
	sort.Sort(natural.StringSlice(rest))
	return append(docs, rest...)
}

// resolve turns a manifest href into an archive path relative to the package
// document location.
func (b *Book) resolve(href string) string {
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		href = href[:i]
	}
	return path.Clean(path.Join(b.opfDir, href))
}

func (b *Book) parse() error {
	// mimetype entry is recommended but not universally present, complain
	// only when it is there and wrong
	if _, ok := b.files["mimetype"]; ok {
		data, err := b.ReadFile("mimetype")
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(data)) != mimetypeContent {
			return fmt.Errorf("unexpected mimetype: %q", strings.TrimSpace(string(data)))
		}
	}

	if err := b.parseContainer(); err != nil {
		return err
	}
	return b.parseOPF()
}

func (b *Book) parseContainer() error {
	data, err := b.ReadFile(containerPath)
	if err != nil {
		return fmt.Errorf("not an EPUB container: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("unable to parse %s: %w", containerPath, err)
	}

	for _, rf := range doc.FindElements("//rootfile") {
		if rf.SelectAttrValue("media-type", "") != "application/oebps-package+xml" {
			continue
		}
		if p := rf.SelectAttrValue("full-path", ""); p != "" {
			b.opfPath = path.Clean(p)
			b.opfDir = path.Dir(b.opfPath)
			if b.opfDir == "." {
				b.opfDir = ""
			}
			return nil
		}
	}
	return fmt.Errorf("no package document declared in %s", containerPath)
}

func (b *Book) parseOPF() error {
	data, err := b.ReadFile(b.opfPath)
	if err != nil {
		return fmt.Errorf("unable to read package document: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("unable to parse package document (%s): %w", b.opfPath, err)
	}

	pkg := doc.Root()
	if pkg == nil || pkg.Tag != "package" {
		return fmt.Errorf("malformed package document (%s)", b.opfPath)
	}

	byID := make(map[string]manifestItem)
	if manifest := pkg.SelectElement("manifest"); manifest != nil {
		for _, el := range manifest.SelectElements("item") {
			it := manifestItem{
				id:        el.SelectAttrValue("id", ""),
				href:      el.SelectAttrValue("href", ""),
				mediaType: el.SelectAttrValue("media-type", ""),
			}
			if it.href == "" {
				continue
			}
			b.items = append(b.items, it)
			if it.id != "" {
				byID[it.id] = it
			}
		}
	}

	if spine := pkg.SelectElement("spine"); spine != nil {
		// broken books occasionally list the same itemref twice, processing
		// a document more than once would double-count chapter numbers
		seen := make(map[string]bool)
		for _, el := range spine.SelectElements("itemref") {
			it, ok := byID[el.SelectAttrValue("idref", "")]
			if !ok || !isContentDoc(it.mediaType) {
				continue
			}
			name := b.resolve(it.href)
			if _, ok := b.files[name]; !ok {
				continue
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			b.spine = append(b.spine, name)
		}
	}

	// dc elements carry a namespace prefix, match on local tag only
	if md := pkg.SelectElement("metadata"); md != nil {
		for _, el := range md.ChildElements() {
			text := strings.TrimSpace(el.Text())
			if text == "" {
				continue
			}
			switch el.Tag {
			case "title":
				if b.meta.Title == "" {
					b.meta.Title = text
				}
			case "creator":
				b.meta.Creators = append(b.meta.Creators, text)
			case "language":
				if b.meta.Language == "" {
					b.meta.Language = text
				}
			case "identifier":
				if b.meta.Identifier == "" {
					b.meta.Identifier = text
				}
			case "date":
				if b.meta.Date == "" {
					b.meta.Date = text
				}
			}
		}
	}
	return nil
}
