// Package writer persists processed pages to the output directory. Assets
// are written before the content file so a reader never observes content
// with dangling local references.
package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/okibox/confluence-export/internal/converter"
	"github.com/okibox/confluence-export/internal/processor"
)

// WritePage writes a processed page and its assets under dir, creating it
// if needed. Returns the path of the content file.
//
// With overwrite false an existing target file is an error; assets written
// before the failing file are left in place.
func WritePage(page *processor.ProcessedPage, dir string, format converter.Format, overwrite bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	for _, image := range page.Images {
		if err := writeAsset(filepath.Join(dir, filepath.FromSlash(image.RelativePath)), image.Bytes, overwrite); err != nil {
			return "", err
		}
	}
	for _, attachment := range page.Attachments {
		if err := writeAsset(filepath.Join(dir, filepath.FromSlash(attachment.RelativePath)), attachment.Bytes, overwrite); err != nil {
			return "", err
		}
	}

	if page.RawStorage != "" {
		rawPath := filepath.Join(dir, page.Filename+".raw.xml")
		if err := writeFile(rawPath, []byte(page.RawStorage), overwrite); err != nil {
			return "", err
		}
	}

	contentPath := filepath.Join(dir, page.Filename+"."+format.Extension())
	if err := writeFile(contentPath, []byte(page.Content), overwrite); err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{
		"path":        contentPath,
		"images":      len(page.Images),
		"attachments": len(page.Attachments),
	}).Debug("wrote page")

	return contentPath, nil
}

// ChildDir is the directory a page's descendants are written into: a
// subdirectory named after the parent's sanitized filename.
func ChildDir(dir string, page *processor.ProcessedPage) string {
	return filepath.Join(dir, page.Filename)
}

func writeAsset(path string, content []byte, overwrite bool) error {
	if parent := filepath.Dir(path); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", parent, err)
		}
	}
	return writeFile(path, content, overwrite)
}

func writeFile(path string, content []byte, overwrite bool) error {
	if overwrite {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("file already exists: %s (use --overwrite to replace it)", path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
