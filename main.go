package main

import "github.com/torinwade/salib/cmd"

func main() {
	cmd.Execute()
}
