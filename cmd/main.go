package main

import (
	"github.com/plateful/ordering-gateway/internal/app"
	"github.com/plateful/ordering-gateway/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
