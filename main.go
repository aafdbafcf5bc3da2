// Package main is the entry point for fluxcell, an interactive Flux shell
// for InfluxDB 2.x.
package main

import (
	"fluxcell/cli/cmd"
)

func main() {
	cmd.Execute()
}
