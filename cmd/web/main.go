package main

import "artexpertise_backend/internal/app"

func main() {
	app.Run()
}
