package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dmitrijs2005/grudgekeeper/internal/client/api"
)

// update prompts for an id and new field values. Fields left empty keep
// their current value; only what the user typed goes into the patch.
func (a *App) update(ctx context.Context) {
	id, err := getSimpleText(a.reader, "Enter record id to update", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	var patch api.EnemyPatch

	name, err := getSimpleText(a.reader, "New name (empty to keep)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if name != "" {
		patch.Name = &name
	}

	levelText, err := getSimpleText(a.reader, "New grudge level 1-10 (empty to keep)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if levelText != "" {
		level, err := strconv.Atoi(levelText)
		if err != nil {
			log.Printf("grudge level must be a number")
			return
		}
		patch.GrudgeLevel = &level
	}

	description, err := getSimpleText(a.reader, "New description (empty to keep)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if description != "" {
		patch.Description = &description
	}

	avatarPath, err := getSimpleText(a.reader, "New avatar image file (empty to keep)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if avatarPath != "" {
		key, err := a.uploadAvatar(ctx, avatarPath)
		if err != nil {
			log.Printf("avatar upload failed: %s", err.Error())
			return
		}
		patch.Avatar = &key
	}

	updated, err := a.api.UpdateEnemy(ctx, id, patch)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Printf("Updated %s (grudge level %d)\n", updated.Name, updated.GrudgeLevel)
}
