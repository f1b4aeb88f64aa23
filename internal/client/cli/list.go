package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) list(ctx context.Context) {
	all, err := a.api.ListEnemies(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	if len(all) == 0 {
		fmt.Println("No enemies yet. Lucky you.")
		return
	}

	for _, e := range all {
		line := fmt.Sprintf("%s  [%2d] %s", e.ID, e.GrudgeLevel, e.Name)
		if e.Description != "" {
			line += " - " + e.Description
		}
		if e.Avatar != "" {
			line += " (avatar: " + e.Avatar + ")"
		}
		fmt.Println(line)
	}
}
