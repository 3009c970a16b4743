package robinhood

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// http utils to deal with the remote API.

// instrumentCache stores successful GET responses on disk for the rest of
// the day. Instrument metadata is effectively immutable, but keying the
// entries on the date keeps a stale record from outliving a listing change.
// Quotes and account data never go through it.
type instrumentCache struct {
	base http.RoundTripper
}

func (c *instrumentCache) RoundTrip(req *http.Request) (*http.Response, error) {
	path := c.entry(req)
	if resp, err := load(path, req); err == nil {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := store(path, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// entry maps a request to its cache file: one directory for the whole cache,
// one file per day and URL.
func (c *instrumentCache) entry(req *http.Request) string {
	key := sha1.Sum([]byte(time.Now().Format("2006-01-02") + " " + req.URL.String()))
	return filepath.Join(os.TempDir(), "rbl-instruments", fmt.Sprintf("%x", key))
}

// load replays a cached response; a missing file is a cache miss.
func load(path string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// store dumps the full response into the cache file.
func store(path string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0600)
}

// daily returns a client whose successful GETs are cached until the end of
// the day.
func daily() *http.Client {
	return &http.Client{Transport: &instrumentCache{http.DefaultTransport}}
}

// readBody drains and closes a response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
