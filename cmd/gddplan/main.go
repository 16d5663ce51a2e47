// Command gddplan estimates crop maturity dates from growing degree days.
//
// Usage:
//
//	gddplan estimate --location 90210 --planting 2024-05-01 --crop tomatoes --crop beans-bush
//	gddplan frost T5A
//	gddplan station 90210
//	gddplan crops
//	gddplan worker
package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	root := newRootCmd(prometheus.DefaultRegisterer)
	os.Exit(exitCode(root.Execute(), os.Stderr))
}
