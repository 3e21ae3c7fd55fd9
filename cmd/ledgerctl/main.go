package main

import "github.com/rafaelleal24/stockledger/internal/cli"

func main() {
	cli.Execute()
}
