package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) delete(ctx context.Context) {
	id, err := getSimpleText(a.reader, "Enter record id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.api.DeleteEnemy(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Println("Deleted.")
}
