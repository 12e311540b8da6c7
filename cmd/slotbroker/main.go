package main

import "github.com/a38062an/Atomic-Resource-Broker/cmd"

func main() {
	cmd.Execute()
}
