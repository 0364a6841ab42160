package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
)

// Extract unpacks a zip archive into dest. Entries whose paths escape dest
// and entries under a leading dot segment are skipped, not fatal: a single
// bad entry should not abort an otherwise-valid package. A corrupt
// container fails with an ARCHIVE error.
func Extract(src io.ReaderAt, size int64, dest string) error {
	logger := logging.GetLogger("archive")

	reader, err := zip.NewReader(src, size)
	if err != nil {
		return errors.Wrap(err, errors.ErrArchive, "failed to open archive")
	}

	for _, entry := range reader.File {
		name := filepath.FromSlash(entry.Name)
		if !filepath.IsLocal(name) {
			logger.Warn().Str("entry", entry.Name).Msg("Skipping entry escaping the extraction root")
			continue
		}
		if strings.HasPrefix(name, ".") {
			logger.Debug().Str("entry", entry.Name).Msg("Skipping hidden entry")
			continue
		}

		out := filepath.Join(dest, name)
		if strings.HasSuffix(entry.Name, "/") {
			if err := os.MkdirAll(out, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", out)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(out))
		}
		if err := writeEntry(entry, out); err != nil {
			return err
		}
		logger.Trace().Str("entry", entry.Name).Str("path", out).Msg("Extracted file")
	}

	return nil
}

// ExtractFile unpacks the zip archive at path into dest.
func ExtractFile(path, dest string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrMissingFile, "no such file %s", path)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", path)
	}
	return Extract(f, info.Size(), dest)
}

func writeEntry(entry *zip.File, out string) error {
	rc, err := entry.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchive, "failed to open archive entry %s", entry.Name)
	}
	defer func() { _ = rc.Close() }()

	// Overwrites any existing file at the same path.
	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", out)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, rc); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", out)
	}
	return nil
}
