package main

import "wpcat/cmd"

func main() {
	cmd.Execute()
}
