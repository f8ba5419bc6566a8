package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

// acceptHeader prefers YAML, the format most documents are written in.
const acceptHeader = "application/yaml, application/x-yaml;q=0.9, application/json;q=0.8, */*;q=0.1"

func openFile(_ context.Context, path string) (stream, error) {
	if path == "" {
		return stream{}, errors.New("loader: file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return stream{}, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return stream{}, fmt.Errorf("loader: read %s: %w", abs, err)
	}
	return stream{body: file}, nil
}

func openFS(files fs.FS) fetcher {
	return func(_ context.Context, name string) (stream, error) {
		if !fs.ValidPath(name) || name == "." {
			return stream{}, fmt.Errorf("loader: invalid fs path %q", name)
		}
		file, err := files.Open(name)
		if err != nil {
			return stream{}, fmt.Errorf("loader: read %s: %w", name, err)
		}
		return stream{body: file}, nil
	}
}

func openURL(client *http.Client) fetcher {
	return func(ctx context.Context, url string) (stream, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return stream{}, fmt.Errorf("loader: build request: %w", err)
		}
		req.Header.Set("Accept", acceptHeader)

		resp, err := client.Do(req)
		if err != nil {
			return stream{}, fmt.Errorf("loader: fetch %s: %w", url, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return stream{}, fmt.Errorf("loader: fetch %s: unexpected status %s", url, resp.Status)
		}
		return stream{body: resp.Body, mediaType: resp.Header.Get("Content-Type")}, nil
	}
}
