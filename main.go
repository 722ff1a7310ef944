package main

import "github.com/KaramelBytes/encodekit/cmd"

func main() {
	cmd.Execute()
}
