package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/valyala/fasthttp"
)

// Tiny liveness probe for container healthchecks: GET /healthz on the
// capsuledb server and exit 0 when it answers 200.
func main() {
	addr := flag.String("addr", "http://127.0.0.1:8080", "base URL of the capsuledb server")
	timeout := flag.Duration("timeout", 3*time.Second, "request timeout")
	flag.Parse()

	url := *addr + "/healthz"
	status, body, err := fasthttp.GetTimeout(nil, url, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "health probe failed: %v\n", err)
		os.Exit(1)
	}
	if status != fasthttp.StatusOK {
		fmt.Fprintf(os.Stderr, "health probe returned %d: %s\n", status, string(body))
		os.Exit(1)
	}
	fmt.Println(string(body))
}
