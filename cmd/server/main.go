package main

import (
	"context"
	"log"

	"github.com/akarpov88/petkeeper/internal/server"
	"github.com/akarpov88/petkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
