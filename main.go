package main

import "github.com/nathfavour/agentpesa/internal/cli"

func main() {
	cli.Execute()
}
