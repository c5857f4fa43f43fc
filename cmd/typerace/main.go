package main

import "github.com/typeracehq/typerace/internal/cli"

func main() {
	cli.Execute()
}
