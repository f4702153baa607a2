package main

import "github.com/probook/prodash/cmd/prodash/commands"

func main() {
	commands.Execute()
}
