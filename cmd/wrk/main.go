// Command wrk is the terminal client for the Wrk project-management API.
package main

import "github.com/wrk-dev/wrk/internal/cli"

func main() {
	cli.Execute()
}
