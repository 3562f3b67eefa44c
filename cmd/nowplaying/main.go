// Package main provides the CLI entrypoint for nowplaying.
package main

func main() {
	Execute()
}
