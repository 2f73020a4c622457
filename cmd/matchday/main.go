// Package main is the entry point for the matchday CLI tool, which runs
// one-shot match simulations and inspects stored results.
package main

import "github.com/charleschow/matchday/internal/cli"

func main() {
	cli.Execute()
}
