package main

import "github.com/osamhq/portal/internal/cli"

func main() {
	cli.Execute()
}
