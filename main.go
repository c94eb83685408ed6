package main

import "device-locator/cmd"

func main() {
	cmd.Execute()
}
