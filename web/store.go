package web

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-dmi/sheet"
)

// ErrBadName is returned for sheet names that are not plain file names.
var ErrBadName = errors.New("web: bad sheet name")

type entry struct {
	sheet   *sheet.Sheet
	modTime time.Time
}

// Store loads sprite sheets from a directory and keeps them in memory until
// told to forget them.
type Store struct {
	dir string

	mu     sync.Mutex
	sheets map[string]entry
}

// NewStore returns a store serving the .dmi files in dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		sheets: make(map[string]entry),
	}
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// CanonicalName appends the .dmi extension if missing and rejects names
// reaching outside the store's directory.
func CanonicalName(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", errors.Wrapf(ErrBadName, "%q", name)
	}
	if !strings.EqualFold(filepath.Ext(name), ".dmi") {
		name += ".dmi"
	}
	return name, nil
}

// Get returns the named sheet along with the modification time of its file,
// loading it if it is not in memory yet.
func (s *Store) Get(name string) (*sheet.Sheet, time.Time, error) {
	name, err := CanonicalName(name)
	if err != nil {
		return nil, time.Time{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sheets[name]; ok {
		return e.sheet, e.modTime, nil
	}

	path := filepath.Join(s.dir, name)
	st, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, errors.Wrapf(err, "web: %q", name)
	}
	sh, err := sheet.Load(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	glog.V(1).Infof("web: loaded %q, %d states", name, sh.Metadata().Len())
	s.sheets[name] = entry{sheet: sh, modTime: st.ModTime()}
	return sh, st.ModTime(), nil
}

// Forget drops the named sheet from memory. The next Get reloads it.
func (s *Store) Forget(name string) {
	name, err := CanonicalName(filepath.Base(name))
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sheets[name]; ok {
		glog.V(1).Infof("web: forgetting %q", name)
		delete(s.sheets, name)
	}
}

// Names lists the .dmi files in the store's directory.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "web: listing %q", s.dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".dmi") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Follow forgets sheets as the watcher reports changes to their files. It
// returns once the watcher is closed.
func (s *Store) Follow(w *Watcher) {
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			s.Forget(name)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			glog.Errorf("web: watching %q: %v", s.dir, err)
		}
	}
}
