package main

import "viz/internal/cli"

func main() {
	cli.Execute()
}
