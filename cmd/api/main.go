package main

import (
	"go.uber.org/fx"

	"github.com/Vawe4321/vendor-core/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
