package main

import "github.com/iksnae/chat-recorder/cmd"

func main() {
	cmd.Execute()
}
