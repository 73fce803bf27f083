package main

import "github.com/olivier-w/dualtone/internal/cli"

func main() {
	cli.Execute()
}
