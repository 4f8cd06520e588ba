package main

import "github.com/moaiedu/staticsite/internal/cli"

func main() {
	cli.Execute()
}
