package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"casebot/app/api"
	"casebot/app/client/dialogue"
	"casebot/app/client/jsonl"
	"casebot/app/client/mongo"
	"casebot/app/client/mycase"
	"casebot/app/config"
	"casebot/app/service/actions"
	"casebot/app/service/auth"
	"casebot/app/service/channel"
	"casebot/app/service/forms"
	"casebot/app/service/queue"
	"casebot/app/service/recorder"
	"casebot/app/service/resolution"
	"casebot/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, mycase.NewClient)
	do.Provide(di, dialogue.NewClient)
	do.Provide(di, mongo.New)
	do.Provide(di, jsonl.New)
	do.Provide(di, queue.New)
	do.Provide(di, recorder.New)
	do.Provide(di, resolution.New)
	do.Provide(di, forms.New)
	do.Provide(di, actions.New)
	do.Provide(di, auth.New)
	do.Provide(di, api.New)
	do.Provide(di, channel.New)

	webhook := do.MustInvoke[*api.Server](di)
	hub := do.MustInvoke[*channel.Hub](di)
	rec := do.MustInvoke[*recorder.Service](di)

	slog.Info("Service started", "actions", len(do.MustInvoke[*actions.Service](di).Names()))

	group, ctx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		rec.Run(ctx)
		return nil
	})
	group.Go(func() error {
		return webhook.Run(ctx)
	})
	group.Go(func() error {
		return hub.Run(ctx)
	})

	go func() {
		<-ctx.Done()
		log.Info("Shutting down...")
	}()

	if err := group.Wait(); err != nil {
		slog.Error("Service stopped", "error", err)
	}
}
