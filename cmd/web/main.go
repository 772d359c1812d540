package main

import "circuithub_backend/internal/app"

func main() {
	app.Run()
}
