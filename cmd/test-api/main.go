// Package main is a smoke-test utility that verifies the onboarding HTTP API
// is reachable and returning valid responses. It hits the health endpoint and
// a username-existence check and prints the status codes and response bodies,
// making it useful for quick post-deployment checks without needing external
// tooling like curl or a full integration test suite.
package main

import (
	"fmt"
	"io"
	"net/http"
)

func main() {
	for _, url := range []string{
		"http://localhost:4000/health",
		"http://localhost:4000/check-username?username=smoketest",
	} {
		resp, err := http.Get(url)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			fmt.Printf("Error reading body: %v\n", err)
			return
		}

		fmt.Printf("GET %s\n", url)
		fmt.Printf("Status: %d\n", resp.StatusCode)
		fmt.Printf("Response:\n%s\n\n", string(body))
	}
}
