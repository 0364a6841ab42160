package archive

import (
	"io"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/embermod/ember/pkg/errors"
)

// SanityCheck inspects the raw archive before installation. Callers hook
// signature or content validation in here; the default is IsZip.
type SanityCheck func(r io.ReaderAt, size int64) error

// IsZip fails with SANITY_FAILED unless the source starts with zip magic
// bytes.
func IsZip(r io.ReaderAt, size int64) error {
	head := make([]byte, 261)
	if size < int64(len(head)) {
		head = head[:size]
	}
	if _, err := r.ReadAt(head, 0); err != nil && err != io.EOF {
		return errors.Wrap(err, errors.ErrSanity, "failed to read archive header")
	}
	if !filetype.IsType(head, matchers.TypeZip) {
		return errors.New(errors.ErrSanity, "file is not a zip archive")
	}
	return nil
}
