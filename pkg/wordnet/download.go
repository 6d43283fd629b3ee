package wordnet

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// maxEntrySize bounds a single unpacked file.
const maxEntrySize = 512 * 1024 * 1024

// responseHeaderTimeout bounds the wait for the server to answer. The body
// itself is only bounded by the caller's context.
var responseHeaderTimeout = 30 * time.Second

func newDownloadClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 30 * time.Second}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: responseHeaderTimeout,
		},
	}
}

// EnsureDump checks if a dump exists in dir. If not, it downloads the
// .tar.gz archive at url and unpacks its XML files into dir.
func EnsureDump(ctx context.Context, dir, url string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if _, err := FindFiles(dir); err == nil {
		logger.Debug("dump already present", "dir", dir)
		return nil
	} else if !errors.Is(err, ErrNoDumpFiles) && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if url == "" {
		return errors.Errorf("no dump found in %s and no download url configured", dir)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "could not create dump directory")
	}

	logger.Info("dump not found, downloading", "dir", dir, "url", url)
	if err := downloadAndExtract(ctx, url, dir); err != nil {
		return err
	}

	if _, err := FindFiles(dir); err != nil {
		return errors.Wrap(err, "downloaded archive holds no dump")
	}
	return nil
}

func downloadAndExtract(ctx context.Context, url, destDir string) error {
	client := newDownloadClient()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "could not create request")
	}
	req.Header.Set("User-Agent", "ruwordnet-cli")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "download failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("download failed: %s", resp.Status)
	}

	gzReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to create gzip reader")
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "error reading tar archive")
		}
		if header.Typeflag != tar.TypeReg || !strings.HasSuffix(strings.ToLower(header.Name), ".xml") {
			continue
		}

		// Entries are flattened to their base name so nothing lands outside destDir.
		name := path.Base(header.Name)
		if err := writeEntry(filepath.Join(destDir, name), tarReader); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(dest string, r io.Reader) error {
	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}

	n, err := io.Copy(out, io.LimitReader(r, maxEntrySize+1))
	if err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to write %s", dest)
	}
	if n > maxEntrySize {
		out.Close()
		return errors.Errorf("%s exceeds %d bytes", dest, maxEntrySize)
	}
	return out.Close()
}
