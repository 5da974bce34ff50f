// Command funnelctl computes queen-rearing funnel analytics from a snapshot
// file without a running server or database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
