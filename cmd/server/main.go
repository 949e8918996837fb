package main

import (
	_ "github.com/voxcards/backend/docs"
	"github.com/voxcards/backend/internal/bootstrap"
)

// @title VoxCards API
// @version 1.0.0
// @description Backend for the voice-driven flashcard tutor

// @host api.voxcards.example.com
// @BasePath /v1

func main() {
	bootstrap.Run()
}
