//go:build cli
// +build cli

package main

import (
	_ "protrack.GO/custom"

	"protrack.GO/cmd"
	"protrack.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
