package main

import "github.com/example/teebooker/internal/interfaces/cli"

func main() {
	cli.Execute()
}
