package main

import "github.com/kamusis/shelf/cmd"

func main() {
	cmd.Execute()
}
