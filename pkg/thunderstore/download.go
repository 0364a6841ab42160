package thunderstore

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/embermod/ember/pkg/errors"
	"github.com/embermod/ember/pkg/logging"
)

// ProgressFunc receives download progress: the bytes written since the last
// call, the total written so far, and the expected total (0 when unknown).
type ProgressFunc func(delta, current, total int64)

const downloadChunkSize = 64 * 1024

// Download copies the body of url into w.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) error {
	return c.DownloadWithProgress(ctx, url, w, nil)
}

// DownloadWithProgress copies the body of url into w, reporting progress
// through cb after every chunk.
func (c *Client) DownloadWithProgress(ctx context.Context, url string, w io.Writer, cb ProgressFunc) error {
	logger := logging.GetLogger("thunderstore")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrNetwork, "failed to build download request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNetwork, "failed to download %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf(errors.ErrNetwork, "thunderstore returned %s for %s", resp.Status, url)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	logger.Debug().Str("url", url).Int64("size", total).Msg("Starting download")

	buf := make([]byte, downloadChunkSize)
	var written int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return errors.Wrap(err, errors.ErrFileWrite, "failed to write download chunk")
			}
			written += int64(n)
			if cb != nil {
				cb(int64(n), written, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.Wrapf(readErr, errors.ErrNetwork, "download of %s interrupted", url)
		}
	}

	logger.Debug().Str("url", url).Int64("bytes", written).Msg("Finished download")
	return nil
}

// DownloadFile downloads url into the file at dest, creating parent
// directories as needed. The file is written next to dest and renamed into
// place so an interrupted download never leaves a plausible-looking archive.
func (c *Client) DownloadFile(ctx context.Context, url, dest string, cb ProgressFunc) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dest))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to create download file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := c.DownloadWithProgress(ctx, url, tmp, cb); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to finish download file")
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to move download into place at %s", dest)
	}
	return nil
}
