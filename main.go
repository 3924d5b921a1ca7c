package main

import "dlc-updater/cmd"

func main() {
	cmd.Execute()
}
