package main

import "github.com/strrl/tiking/cmd/tiking/commands"

func main() {
	commands.Execute()
}
