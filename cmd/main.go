package main

import (
	"github.com/warungnusantara/storefront/internal/app"
	"github.com/warungnusantara/storefront/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
