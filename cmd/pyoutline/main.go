package main

import "github.com/mvp-joe/pyoutline/internal/cli"

func main() {
	cli.Execute()
}
