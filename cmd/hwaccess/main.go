// Package main is the entry point for the hwaccess CLI.
package main

import (
	"github.com/shady333/gettingHWaccess/cmd/hwaccess/cmd"
)

func main() {
	cmd.Execute()
}
