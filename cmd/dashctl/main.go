// Package main is the entry point for the dashctl CLI.
package main

import (
	"agriconsole/internal/cli"
)

func main() {
	cli.Execute()
}
