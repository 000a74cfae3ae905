package main

import (
	"flag"
	"log"
	"net/http"
)

// Serves the built static site locally. Production deployments publish the
// dist directory to static hosting instead.
func main() {
	var (
		addr = flag.String("addr", ":9000", "listen address")
		dir  = flag.String("dir", "dist", "directory to serve")
	)
	flag.Parse()

	log.Printf("serving %s on %s", *dir, *addr)
	if err := http.ListenAndServe(*addr, http.FileServer(http.Dir(*dir))); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
