package main

import "github.com/okibox/confluence-export/cmd/confluence-export/commands"

func main() {
	commands.Execute()
}
