// Command tryon runs a single try-on from the command line and writes the
// generated image to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"fitting-room/internal/app"
	"fitting-room/internal/application/usecases"
	"fitting-room/internal/domain/entities"
	"fitting-room/internal/infrastructure/config"
	"fitting-room/internal/infrastructure/logging"
)

func main() {
	photo := flag.String("photo", "", "path to the person photo")
	garment := flag.String("garment", "", "catalog garment id or name")
	out := flag.String("out", "result.png", "where to write the generated image")
	list := flag.Bool("list", false, "list catalog garments and exit")
	flag.Parse()

	if err := run(*photo, *garment, *out, *list); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(photo, garmentKey, out string, list bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetupWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	if list {
		for _, g := range application.Catalog.List() {
			fmt.Printf("%s\t%s\n", g.ID(), g.Name())
		}
		return nil
	}

	if photo == "" || garmentKey == "" {
		return fmt.Errorf("both -photo and -garment are required")
	}

	garment, err := application.Catalog.Find(garmentKey)
	if err != nil {
		return err
	}

	output, err := application.TryOn.Execute(ctx, usecases.TryOnInput{
		PersonFile: entities.NewDiskFile(photo),
		Garment:    garment,
		OnPhase: func(phase entities.Phase) {
			log.Ctx(ctx).Info().Str("phase", string(phase)).Msg("try-on progress")
		},
	})
	if err != nil {
		if failure, ok := entities.AsTryOnError(err); ok {
			return fmt.Errorf("%s: %s", failure.Kind, failure.UserMessage())
		}
		return err
	}

	if err := os.WriteFile(out, output.Image.Data(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("wrote %s (%s, request %s)\n", out, output.Image.MimeType(), output.RequestID)
	return nil
}
