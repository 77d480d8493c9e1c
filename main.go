package main

import "github.com/gaurav-prasanna/pagescrub/cmd"

func main() {
	cmd.Execute()
}
