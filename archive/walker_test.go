package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func makeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	defer w.Close()

	for name, content := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t, map[string]string{
		"OEBPS/ch01.xhtml":       "<html/>",
		"OEBPS/ch02.xhtml":       "<html/>",
		"OEBPS/content.opf":      "<package/>",
		"META-INF/container.xml": "<container/>",
		"mimetype":               "application/epub+zip",
	})

	t.Run("walk with prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "OEBPS/", func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if len(visited) != 3 {
			t.Errorf("visited %d files, want 3", len(visited))
		}
	})

	t.Run("walk with empty prefix", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "", func(archive string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 5 {
			t.Errorf("visited %d files, want 5", visited)
		}
	})

	t.Run("walk with no matching prefix", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "nonexistent/", func(archive string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 0 {
			t.Errorf("visited %d files, want 0", visited)
		}
	})

	t.Run("walkFn error stops walk", func(t *testing.T) {
		stopErr := errors.New("stop walking")
		var visited int
		err := Walk(zipPath, "OEBPS/", func(archive string, file *zip.File) error {
			visited++
			if visited == 2 {
				return stopErr
			}
			return nil
		})
		if err != stopErr {
			t.Errorf("Walk() error = %v, want %v", err, stopErr)
		}
		if visited != 2 {
			t.Errorf("visited %d files, want 2 (early termination)", visited)
		}
	})

	t.Run("file content readable", func(t *testing.T) {
		err := Walk(zipPath, "mimetype", func(archive string, file *zip.File) error {
			rc, err := file.Open()
			if err != nil {
				return err
			}
			defer rc.Close()

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(rc); err != nil {
				return err
			}
			if buf.String() != "application/epub+zip" {
				t.Errorf("content = %s, want application/epub+zip", buf.String())
			}
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
	})
}

func TestWalk_SkipsDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	dirHeader := &zip.FileHeader{Name: "OEBPS/"}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	fw, err := w.Create("OEBPS/ch01.xhtml")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("<html/>"))
	w.Close()
	zipFile.Close()

	var visited []string
	err = Walk(zipPath, "OEBPS/", func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	if len(visited) != 1 || visited[0] != "OEBPS/ch01.xhtml" {
		t.Errorf("visited = %v, want only OEBPS/ch01.xhtml", visited)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		err := Walk(invalidZip, "", func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_UnsafePath(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	fw, err := w.Create("../escape.txt")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("content"))
	w.Close()
	zipFile.Close()

	err = Walk(zipPath, "", func(archive string, file *zip.File) error {
		t.Errorf("walkFn called for unsafe entry %s", file.Name)
		return nil
	})
	if err == nil {
		t.Error("Expected error for zip entry with path traversal")
	}
}
