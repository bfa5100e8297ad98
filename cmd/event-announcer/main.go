package main

import "github.com/pfrederiksen/event-announcer/internal/cli"

func main() {
	cli.Execute()
}
