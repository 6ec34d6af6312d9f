package paths

import (
	"flag"
	"os"
)

// SetupFilePathFlag registers a string flag on the command line whose default
// is wherever Find locates fileName, or an empty string.
func SetupFilePathFlag(fileName, flagName string, flagPtr *string) {
	SetupFilePathFlagSet(flag.CommandLine, fileName, flagName, flagPtr)
}

// SetupFilePathFlagSet is SetupFilePathFlag for an arbitrary flag set.
func SetupFilePathFlagSet(fs *flag.FlagSet, fileName, flagName string, flagPtr *string) {
	fs.StringVar(flagPtr, flagName, Find(fileName), "Path or http(s) URL of "+fileName)
}

// SetupDirFlagSet registers a string flag defaulting to the first existing
// directory among Dirs.
func SetupDirFlagSet(fs *flag.FlagSet, flagName string, flagPtr *string) {
	def := ""
	for _, dir := range Dirs() {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			def = dir
			break
		}
	}
	fs.StringVar(flagPtr, flagName, def, "Directory holding .dmi sprite sheets")
}
