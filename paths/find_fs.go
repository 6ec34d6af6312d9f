package paths

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// EnvVar lists extra directories to search, separated like $PATH.
const EnvVar = "DMI_PATH"

func getPossiblePathDirsFSImp() []string {
	dirs := filepath.SplitList(os.Getenv(EnvVar))
	dirs = append(dirs,
		".",
		"icons",
		os.Args[0]+".runfiles/go_dmi/icons",
	)
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		dirs = append(dirs, filepath.Join(gopath, "src/badc0de.net/pkg/go-dmi/icons"))
	}
	return dirs
}

func getPossiblePathsFSImp(fileName string) []string {
	if filepath.IsAbs(fileName) {
		return []string{fileName}
	}
	var paths []string
	for _, dir := range getPossiblePathDirsFSImp() {
		if dir == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, fileName))
	}
	return paths
}

func openFSImp(fileName string) (ReadSeekCloser, error) {
	path := Find(fileName)
	if path == "" {
		return nil, errors.Wrapf(os.ErrNotExist, "paths.Open(%q): not found in %v", fileName, getPossiblePathDirsFSImp())
	}
	return noFindOpenFSImp(path)
}

func noFindOpenFSImp(fileName string) (ReadSeekCloser, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.NoFindOpen(%q)", fileName)
	}
	return f, nil
}
