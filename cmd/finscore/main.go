package main

import "finscore/internal/cli"

func main() {
	cli.Execute()
}
