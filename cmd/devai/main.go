package main

import "github.com/emredev/devai/internal/commands"

func main() {
	commands.Execute()
}
