/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
	"testing"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ServiceName   string
	ByPassAuth    bool
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "service name reported to logging and tracing")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "skip the viewer identity middleware, every request is anonymous")
	// Parsing here would reject the -test.* flags the testing package
	// registers later, so skip it when running under `go test`.
	if !testing.Testing() {
		flag.Parse()
	}
}
