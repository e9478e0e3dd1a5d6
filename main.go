package main

import "github.com/Albumate/Albumate-Back/cmd"

func main() {
	cmd.Execute()
}
