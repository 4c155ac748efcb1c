package main

import "github.com/theakshaypant/jtk/cmd/jtk/cmd"

func main() {
	cmd.Execute()
}
