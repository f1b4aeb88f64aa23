package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/grudgekeeper/internal/netx"
)

// uploadFile is a test seam for netx.UploadToPresignedURL.
var uploadFile = netx.UploadToPresignedURL

// uploadAvatar reads a local image file, asks the server for a presigned
// upload URL, and PUTs the bytes directly to object storage. It returns the
// storage key to set as the enemy's avatar.
func (a *App) uploadAvatar(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	key, url, err := a.api.AvatarUploadURL(ctx)
	if err != nil {
		return "", err
	}

	if err := uploadFile(url, data); err != nil {
		return "", err
	}

	return key, nil
}

// avatar prompts for an enemy id and prints a short-lived URL for viewing
// that enemy's avatar image.
func (a *App) avatar(ctx context.Context) {
	id, err := getSimpleText(a.reader, "Enter record id", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	all, err := a.api.ListEnemies(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, e := range all {
		if e.ID != id {
			continue
		}
		if e.Avatar == "" {
			fmt.Println("This enemy has no avatar.")
			return
		}
		url, err := a.api.AvatarDownloadURL(ctx, e.Avatar)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			return
		}
		fmt.Println(url)
		return
	}

	fmt.Println("No enemy with that id.")
}
