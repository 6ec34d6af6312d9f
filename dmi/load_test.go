package dmi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"badc0de.net/pkg/flagutil/v1"

	"badc0de.net/pkg/go-dmi/pngmeta"
	"badc0de.net/pkg/go-dmi/source"
	"badc0de.net/pkg/go-dmi/ttesting"
)

func TestMain(m *testing.M) {
	// make -args -v=3 -logtostderr work.
	flagutil.Parse()
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatalf("failed to write %s: %s", path, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	img := ttesting.Sheet(128, 96, 32, 48)
	path := writeFile(t, "mob.dmi", ttesting.BuildPNG(t, img, ttesting.ZTXt(t, pngmeta.DescriptionKey, idleWalk)))

	md, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %s", err)
	}
	ttesting.AssertEqualInt(t, "walk first frame", mustLookup(t, md, "walk").FirstFramePos, 8)
	w, h := md.ImageSize()
	ttesting.AssertEqualInt(t, "image width", w, 128)
	ttesting.AssertEqualInt(t, "image height", h, 96)
}

func TestLoadFromMemory(t *testing.T) {
	md, err := LoadFrom(source.Bytes(ttesting.DMI(t, idleWalk)))
	if err != nil {
		t.Fatalf("failed to load: %s", err)
	}
	ttesting.AssertEqualInt(t, "state count", md.Len(), 2)
}

func TestLoadErrors(t *testing.T) {
	plain := ttesting.BuildPNG(t, ttesting.Sheet(32, 32, 32, 32))
	bad := ttesting.DMI(t, strings.Replace(idleWalk, "delay = 10,10", "delay = 10", 1))

	for _, tc := range []struct {
		name string
		b    []byte
		want error
	}{
		{"not a png", []byte("this is not a sprite sheet"), pngmeta.ErrNotAContainer},
		{"no description", plain, pngmeta.ErrMetadataNotFound},
		{"truncated", plain[:40], pngmeta.ErrTruncatedStream},
		{"bad description", bad, ErrMalformedDelayList},
	} {
		t.Run(tc.name, func(t *testing.T) {
			md, err := Load(writeFile(t, "x.dmi", tc.b))
			if md != nil {
				t.Errorf("got metadata alongside error")
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v; want %v", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.dmi"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v; want os.ErrNotExist", err)
	}
}

func TestLoadAll(t *testing.T) {
	a := writeFile(t, "a.dmi", ttesting.DMI(t, idleWalk))
	b := writeFile(t, "b.dmi", ttesting.DMI(t, `# BEGIN DMI
version = 4.0
width = 16
height = 16
state = "walk"
	dirs = 1
	frames = 1
# END DMI`))

	mds, err := LoadAll(context.Background(), a, b)
	if err != nil {
		t.Fatalf("failed to load: %s", err)
	}
	ttesting.AssertEqualInt(t, "count", len(mds), 2)
	ttesting.AssertEqualInt(t, "a walk first frame", mustLookup(t, mds[0], "walk").FirstFramePos, 8)
	ttesting.AssertEqualInt(t, "b walk first frame", mustLookup(t, mds[1], "walk").FirstFramePos, 0)
	ttesting.AssertEqualInt(t, "a width", mds[0].Width(), 32)
	ttesting.AssertEqualInt(t, "b width", mds[1].Width(), 16)
}

func TestLoadAllFailure(t *testing.T) {
	a := writeFile(t, "a.dmi", ttesting.DMI(t, idleWalk))
	_, err := LoadAll(context.Background(), a, filepath.Join(t.TempDir(), "missing.dmi"))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadAll(ctx, writeFile(t, "a.dmi", ttesting.DMI(t, idleWalk)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v; want context.Canceled", err)
	}
}

// TestConcurrentLoads parses unrelated documents in parallel and checks that
// every result only reflects its own input.
func TestConcurrentLoads(t *testing.T) {
	const n = 16
	docs := make([][]byte, n)
	for i := range docs {
		docs[i] = ttesting.DMI(t, fmt.Sprintf(`# BEGIN DMI
version = 4.0
width = %d
height = 32
state = "pad"
	dirs = 1
	frames = %d
state = "s%d"
	dirs = 4
	frames = 1
# END DMI`, i+1, i, i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range docs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			md, err := LoadFrom(source.Bytes(docs[i]))
			if err != nil {
				errs <- err
				return
			}
			s, ok := md.Lookup(fmt.Sprintf("s%d", i))
			switch {
			case !ok:
				errs <- fmt.Errorf("doc %d: own state missing", i)
			case s.FirstFramePos != i:
				errs <- fmt.Errorf("doc %d: first frame %d, want %d", i, s.FirstFramePos, i)
			case md.Width() != i+1:
				errs <- fmt.Errorf("doc %d: width %d, want %d", i, md.Width(), i+1)
			case md.Len() != 2:
				errs <- fmt.Errorf("doc %d: %d states, want 2", i, md.Len())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
