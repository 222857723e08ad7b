package main

import "github.com/devicelab-dev/interact/pkg/cli"

func main() {
	cli.Execute()
}
