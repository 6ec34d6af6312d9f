package paths

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	cache     = make(map[string][]byte)
	cacheLock sync.Mutex

	httpClient = http.DefaultClient
)

// openHTTPImp fetches the passed URL once and serves later opens from memory.
func openHTTPImp(url string) (ReadSeekCloser, error) {
	cacheLock.Lock()
	defer cacheLock.Unlock()

	if b, ok := cache[url]; ok {
		glog.V(2).Infof("paths: %q served from cache", url)
		return &bytesReaderWithDummyClose{bytes.NewReader(b)}, nil
	}

	glog.V(1).Infof("paths: fetching %q", url)
	response, err := httpClient.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q): failed to fetch", url)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		return nil, errors.Wrapf(e, "paths.Open(%q): http response.StatusCode=%v, want 200", url, response.StatusCode)
	}

	b, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q): reading response", url)
	}
	cache[url] = b
	return &bytesReaderWithDummyClose{bytes.NewReader(b)}, nil
}

// ForgetCached drops every fetched URL from memory.
func ForgetCached() {
	cacheLock.Lock()
	defer cacheLock.Unlock()
	cache = make(map[string][]byte)
}

type bytesReaderWithDummyClose struct {
	*bytes.Reader
}

func (bytesReaderWithDummyClose) Close() error {
	return nil
}
