package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/flagutil/v1"

	"badc0de.net/pkg/go-dmi/pngmeta"
	"badc0de.net/pkg/go-dmi/ttesting"
	"badc0de.net/pkg/go-dmi/web"
)

func TestMain(m *testing.M) {
	flagutil.Parse()
	os.Exit(m.Run())
}

func TestRouter(t *testing.T) {
	dir := t.TempDir()
	b := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32), ttesting.ZTXt(t, pngmeta.DescriptionKey, `# BEGIN DMI
version = 4.0
	width = 32
	height = 32
state = "idle"
	dirs = 1
	frames = 1
# END DMI`))
	if err := os.WriteFile(filepath.Join(dir, "mob.dmi"), b, 0644); err != nil {
		t.Fatalf("failed to write: %s", err)
	}

	srv := httptest.NewServer(newRouter(web.NewStore(dir)))
	defer srv.Close()

	req, _ := http.NewRequest("GET", srv.URL+"/dmi/mob.dmi/meta.json", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		t.Fatalf("failed to GET: %s", err)
	}
	defer resp.Body.Close()
	ttesting.AssertEqualInt(t, "status", resp.StatusCode, http.StatusOK)
	ttesting.AssertEqualString(t, "encoding", resp.Header.Get("Content-Encoding"), "gzip")
}
