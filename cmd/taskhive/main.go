package main

import "taskhive/internal/app"

func main() {
	app.Run()
}
