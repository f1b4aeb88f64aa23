package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
)

func (a *App) add(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Enemy name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	levelText, err := getSimpleText(a.reader, "Grudge level (1-10)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	level, err := strconv.Atoi(levelText)
	if err != nil {
		log.Printf("grudge level must be a number")
		return
	}

	description, err := getSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	avatarPath, err := getSimpleText(a.reader, "Avatar image file (optional)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	avatar := ""
	if avatarPath != "" {
		avatar, err = a.uploadAvatar(ctx, avatarPath)
		if err != nil {
			log.Printf("avatar upload failed: %s", err.Error())
			return
		}
	}

	created, err := a.api.AddEnemy(ctx, name, level, description, avatar)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Printf("Added %s (id %s)\n", created.Name, created.ID)
}
