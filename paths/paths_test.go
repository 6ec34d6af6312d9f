package paths

import (
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"badc0de.net/pkg/go-dmi/ttesting"
)

func TestFindInEnvDir(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "mob.dmi")
	if err := os.WriteFile(want, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write: %s", err)
	}
	t.Setenv(EnvVar, dir)

	ttesting.AssertEqualString(t, "found", Find("mob.dmi"), want)
	ttesting.AssertEqualString(t, "first dir", Dirs()[0], dir)
}

func TestFindMissing(t *testing.T) {
	t.Setenv(EnvVar, t.TempDir())
	ttesting.AssertEqualString(t, "found", Find("surely-missing-sheet.dmi"), "")

	_, err := Open("surely-missing-sheet.dmi")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v; want os.ErrNotExist", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mob.dmi"), []byte("contents"), 0644); err != nil {
		t.Fatalf("failed to write: %s", err)
	}
	t.Setenv(EnvVar, dir)

	f, err := Open("mob.dmi")
	if err != nil {
		t.Fatalf("failed to open: %s", err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("failed to read: %s", err)
	}
	ttesting.AssertEqualString(t, "contents", string(b), "contents")
}

func TestOpenHTTP(t *testing.T) {
	defer ForgetCached()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/mob.dmi" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	for i := 0; i < 2; i++ {
		f, err := Open(srv.URL + "/mob.dmi")
		if err != nil {
			t.Fatalf("failed to open: %s", err)
		}
		b, _ := io.ReadAll(f)
		f.Close()
		ttesting.AssertEqualString(t, "contents", string(b), "remote")
	}
	ttesting.AssertEqualInt(t, "fetches", int(atomic.LoadInt32(&hits)), 1)

	_, err := NoFindOpen(srv.URL + "/missing.dmi")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v; want os.ErrNotExist", err)
	}
}

func TestSetupFilePathFlagSet(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "mob.dmi")
	if err := os.WriteFile(want, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write: %s", err)
	}
	t.Setenv(EnvVar, dir)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var path, icons string
	SetupFilePathFlagSet(fs, "mob.dmi", "mob_path", &path)
	SetupDirFlagSet(fs, "icons_dir", &icons)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("failed to parse: %s", err)
	}
	ttesting.AssertEqualString(t, "path default", path, want)
	ttesting.AssertEqualString(t, "dir default", icons, dir)
}
