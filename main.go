package main

import "github.com/BeepBeep84/blog/cmd"

func main() {
	cmd.Execute()
}
