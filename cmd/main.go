package main

import "petcover_service/internal/cmd"

func main() {
	cmd.Execute()
}
