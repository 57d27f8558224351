// Package main is the entry point for the ignobel CLI, which ranks soccer
// players for satirical awards from match event logs.
package main

import "github.com/pable/go-ignobel-metrics/cmd"

func main() {
	cmd.Execute()
}
