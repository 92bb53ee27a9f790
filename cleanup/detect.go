package cleanup

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
)

// detection needs the local file header of the first zip entry, 128 bytes is
// more than enough
const sniffLen = 128

func sniff(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// isEpubFile recognizes EPUB containers. Containers which store mimetype as
// the first entry match directly, the rest are accepted on zip signature plus
// file extension.
func isEpubFile(name string) (bool, error) {
	buf, err := sniff(name)
	if err != nil {
		return false, err
	}
	if filetype.IsType(buf, matchers.TypeEpub) {
		return true, nil
	}
	return filetype.IsType(buf, matchers.TypeZip) && hasEpubExt(name), nil
}

// isArchiveFile recognizes plain zip archives which may hold EPUB files
// inside. An EPUB container itself is not an archive in this sense.
func isArchiveFile(name string) (bool, error) {
	buf, err := sniff(name)
	if err != nil {
		return false, err
	}
	if filetype.IsType(buf, matchers.TypeEpub) || hasEpubExt(name) {
		return false, nil
	}
	return filetype.IsType(buf, matchers.TypeZip), nil
}

func hasEpubExt(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".epub")
}
