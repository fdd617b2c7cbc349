// Command pitchctl is the operator CLI: it generates synthetic feeds,
// replays them against a running service and reports on exported snapshots.
package main

import "github.com/pitchpulse/pitchpulse/cmd/pitchctl/cli"

func main() {
	cli.Execute()
}
