package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"scoutsync/internal/models"
)

// attachImage reads an image file, stores the binary in the blob store, and
// appends a local reference to the field. The binary itself travels to the
// server later, during attachment promotion in a sync run.
func (a *App) attachImage(ctx context.Context, args []string) {
	info, scout, ok := a.requireEditable(ctx)
	if !ok {
		return
	}
	ref, rest, err := parseRecordRef(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	if len(rest) != 2 {
		fmt.Println("usage: attach <ref> <field> <path>")
		return
	}
	fieldID, path := rest[0], rest[1]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("cannot read %s: %v\n", path, err)
		return
	}
	mime := http.DetectContentType(data)

	imageID, err := a.blobs.Save(ctx, data, filepath.Base(path), mime)
	if err != nil {
		a.log.Error(ctx, "failed to store attachment", "error", err)
		return
	}

	rec, err := a.loadEntry(ctx, ref, info)
	if err != nil {
		a.log.Error(ctx, "failed to load entry", "error", err)
		return
	}

	// Append to the field's existing references, if it already holds images.
	var images []models.ImageRef
	if existing, ok := rec.Entry().Entries[fieldID]; ok {
		if imgs, err := existing.Images(); err == nil {
			images = imgs
		}
	}
	images = append(images, models.ImageRef{ImageID: imageID, ImageMime: mime, Local: true})

	value, err := models.WrapValue(models.ImageValue{Images: images}, scout, time.Now().UnixMilli())
	if err != nil {
		a.log.Error(ctx, "failed to build image value", "error", err)
		return
	}
	rec.Entry().SetField(fieldID, value)
	if err := a.saveEntry(ctx, rec); err != nil {
		a.log.Error(ctx, "failed to save entry", "error", err)
		return
	}
	fmt.Printf("attached %s as %s (uploads on next sync)\n", filepath.Base(path), imageID)
}
