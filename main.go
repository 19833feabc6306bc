package main

import "github.com/Alex72-py/gemini-cli-termux/cmd"

func main() {
	cmd.Execute()
}
