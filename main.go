package main

import "romkit/cmd"

func main() {
	cmd.Execute()
}
