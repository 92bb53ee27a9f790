package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	fixzip "github.com/hidez8891/zip"
)

// Rewrite copies the container from src to dst replacing contents of the
// named entries. Entry order is preserved except for mimetype which is always
// written first and uncompressed as EPUB OCF requires. When fixZip is set the
// result is additionally rewritten without zip data descriptors since some
// readers choke on streamed zip entries.
func Rewrite(src, dst string, replace map[string][]byte, fixZip bool) error {
	if !fixZip {
		return rewrite(src, dst, replace)
	}

	tmp, err := os.CreateTemp("", "epub-rw-*.zip")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	if err := rewrite(src, tmpName, replace); err != nil {
		return err
	}
	return copyZipWithoutDataDescriptors(tmpName, dst)
}

func rewrite(src, dst string, replace map[string][]byte) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("unable to open container (%s): %w", src, err)
	}
	defer r.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create output file (%s): %w", dst, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	if err := writeMimetype(zw); err != nil {
		return fmt.Errorf("unable to write mimetype: %w", err)
	}

	for _, f := range r.File {
		if f.Name == "mimetype" || f.FileInfo().IsDir() {
			continue
		}
		if data, ok := replace[f.Name]; ok {
			if err := writeDataToZip(zw, f.Name, data); err != nil {
				return fmt.Errorf("unable to write entry (%s): %w", f.Name, err)
			}
			continue
		}
		if err := zw.Copy(f); err != nil {
			return fmt.Errorf("unable to copy entry (%s): %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	return out.Close()
}

func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}

func writeMimetype(zw *zip.Writer) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mimetypeContent)
	return err
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
