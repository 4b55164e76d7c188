package main

import "github.com/scriptbench/scriptbench/cmd"

func main() {
	cmd.Execute()
}
