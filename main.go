package main

import "github.com/tabletalk-ai/tabletalk/cmd"

func main() {
	cmd.Execute()
}
