package main

import (
	"net/http"

	"github.com/blocklift/blocklift/cmd"
	"github.com/blocklift/blocklift/internals/ownhttp"
)

// set by goreleaser
var version = "dev"

func main() {
	// replace default http client
	http.DefaultClient = ownhttp.New()

	cmd.Version = version
	cmd.Execute()
}
