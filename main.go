package main

import "github.com/powperpay/reportctl/cmd"

func main() {
	cmd.Execute()
}
