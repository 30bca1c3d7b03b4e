package main

import "pixels/cli"

func main() {
	cli.Execute()
}
