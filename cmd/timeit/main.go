package main

import "github.com/MeKo-Tech/timeit/cmd/timeit/cmd"

func main() {
	cmd.Execute()
}
