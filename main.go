package main

import "rosterbot/cmd"

func main() {
	cmd.Execute()
}
