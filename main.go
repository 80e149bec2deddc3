package main

import "github.com/theirongolddev/homeloan/cmd"

func main() {
	cmd.Execute()
}
