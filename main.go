package main

import "lighting-patcher/cmd"

func main() {
	cmd.Execute()
}
