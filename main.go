package main

import "github.com/pulldeck/pulldeck/cmd"

func main() {
	cmd.Execute()
}
