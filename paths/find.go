// Package paths locates .dmi sprite sheets on disk or over HTTP.
package paths

import (
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
)

// ReadSeekCloser is what Open returns.
type ReadSeekCloser interface {
	io.ReadCloser
	io.Seeker
}

// Find locates the passed sprite sheet and returns an absolute or relative
// path to find it at. If it cannot be found, an empty string is returned.
//
// For example, for "mob.dmi" it may return
// "mybinary.runfiles/go_dmi/icons/mob.dmi".
func Find(fileName string) string {
	if isURL(fileName) {
		return fileName
	}
	for _, path := range getPossiblePathsFSImp(fileName) {
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Dirs returns the directories Find looks in, in order.
func Dirs() []string {
	return getPossiblePathDirsFSImp()
}

// Open locates the passed file in the same locations that Find would look, and
// opens it. http:// and https:// URLs are fetched instead.
func Open(fileName string) (ReadSeekCloser, error) {
	if isURL(fileName) {
		return openHTTPImp(fileName)
	}
	return openFSImp(fileName)
}

// NoFindOpen opens the passed path or URL as is, without searching.
func NoFindOpen(fileName string) (ReadSeekCloser, error) {
	if isURL(fileName) {
		return openHTTPImp(fileName)
	}
	return noFindOpenFSImp(fileName)
}

func isURL(fileName string) bool {
	return strings.HasPrefix(fileName, "http://") || strings.HasPrefix(fileName, "https://")
}
