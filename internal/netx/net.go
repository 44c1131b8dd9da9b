// Package netx loads image bytes for upload from either a local file or a
// remote http(s) URL.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MaxImageSize caps how much is read from one source.
const MaxImageSize = 10 << 20

// IsRemote reports whether src is an http or https URL.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Download GETs rawURL and returns its body.
func Download(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}
	return readLimited(resp.Body)
}

// LoadImage returns the file name and content of src, which is a local path
// or an http(s) URL.
func LoadImage(ctx context.Context, client *http.Client, src string) (string, []byte, error) {
	if IsRemote(src) {
		u, err := url.Parse(src)
		if err != nil {
			return "", nil, err
		}
		data, err := Download(ctx, client, src)
		if err != nil {
			return "", nil, err
		}
		name := path.Base(u.Path)
		if name == "/" || name == "." {
			name = "image"
		}
		return name, data, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(src), data, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("image larger than %d bytes", MaxImageSize)
	}
	return data, nil
}
