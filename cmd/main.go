package main

import (
	"fmt"
	"os"

	"github.com/provadapt/provadapt-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	fmt.Printf("Server listening on :%s\n", application.Cfg.Port)
	if err := application.Run(":" + application.Cfg.Port); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}
