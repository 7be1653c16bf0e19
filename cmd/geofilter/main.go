package main

import "geofilter/internal/cli"

func main() {
	cli.Execute()
}
