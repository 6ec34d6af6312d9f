// Command dmiweb serves the .dmi sprite sheets of a directory over HTTP.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "golang.org/x/net/trace" // registers /debug/requests on the debug server

	"badc0de.net/pkg/go-dmi/paths"
	"badc0de.net/pkg/go-dmi/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for dmiweb")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server will listen")
	watch          = flag.Bool("watch", true, "whether to reload sheets when their files change")
	banner         = flag.Bool("banner", true, "whether to print a banner on startup")

	iconsDir string
)

func newRouter(store *web.Store) http.Handler {
	r := mux.NewRouter()
	web.NewHandler(store).RegisterRoutes(r)
	return handlers.CombinedLoggingHandler(os.Stderr, handlers.CompressHandler(r))
}

func main() {
	paths.SetupDirFlagSet(flag.CommandLine, "icons_dir", &iconsDir)
	flagutil.Parse()

	if iconsDir == "" {
		glog.Exit("no icons directory found; pass -icons_dir")
	}
	if *banner {
		figure.NewFigure("dmiweb", "", true).Print()
	}

	store := web.NewStore(iconsDir)
	if *watch {
		w, err := web.NewWatcher(iconsDir)
		if err != nil {
			glog.Exitf("watching %q: %v", iconsDir, err)
		}
		defer w.Close()
		go store.Follow(w)
	}

	if *debugWebServer != "" {
		http.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
		})
		go func() {
			glog.Errorf("debug server: %v", http.ListenAndServe(*debugWebServer, nil))
		}()
	}

	glog.Infof("serving %q on %s", iconsDir, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, newRouter(store)))
}
