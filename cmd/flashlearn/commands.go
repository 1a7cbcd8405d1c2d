package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/kpauljoseph/flashlearn/internal/api"
	"github.com/kpauljoseph/flashlearn/internal/controller"
	"github.com/kpauljoseph/flashlearn/internal/scanner"
	"github.com/kpauljoseph/flashlearn/internal/view"
	"github.com/kpauljoseph/flashlearn/internal/web"
	"github.com/kpauljoseph/flashlearn/pkg/models"
)

func (a *app) listSubjects(ctx context.Context) error {
	if err := a.ctrl.Init(ctx); err != nil {
		return err
	}
	return view.WriteText(os.Stdout, a.page.Snapshot())
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	reveal := fs.Bool("reveal", false, "print both sides of every flashcard")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return errUsage
	}
	name := fs.Arg(0)

	if err := a.ctrl.LoadSubjects(ctx); err != nil {
		return err
	}
	if !a.ctrl.SelectSubject(name) {
		return fmt.Errorf("%w: %s", api.ErrSubjectNotFound, name)
	}

	content := a.page.Snapshot().Content
	view.WriteSubject(os.Stdout, content)
	if *reveal {
		fmt.Println("\nFlashcard answers")
		view.WriteFlashcardsBothSides(os.Stdout, content.Flashcards)
	}
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	subject := fs.String("subject", "", "subject name (root name with -dir)")
	file := fs.String("file", "", "PDF or TXT file to upload")
	videoURL := fs.String("url", "", "YouTube URL to upload")
	dir := fs.String("dir", "", "directory of files to upload one by one")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *dir != "" {
		return a.uploadDir(ctx, *dir, *subject)
	}

	form := controller.UploadForm{Subject: *subject, URL: *videoURL}
	if *videoURL != "" && *file == "" {
		if err := a.ctrl.ShowTab(models.TabYouTube); err != nil {
			return err
		}
	} else if *file != "" {
		form.File = &controller.Attachment{Path: *file}
	}

	if err := a.ctrl.Upload(ctx, form); err != nil {
		return err
	}
	a.log.Info("Subject %q is ready", a.ctrl.CurrentSubject())
	return view.WriteText(os.Stdout, a.page.Snapshot())
}

func (a *app) uploadDir(ctx context.Context, dir, root string) error {
	files, err := scanner.New(a.cfg.Upload.AllowedExtensions, a.log).FindUploads(ctx, dir)
	if err != nil {
		return err
	}
	a.log.Info("Found %d files to upload", len(files))

	var failed int
	for _, f := range files {
		name := scanner.SubjectFromPath(root, f.RelativePath)
		err := a.ctrl.Upload(ctx, controller.UploadForm{
			Subject: name,
			File:    &controller.Attachment{Path: f.AbsolutePath},
		})
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			a.log.Error("Error uploading %s: %s", f.RelativePath, controller.UserMessage(err, err.Error()))
			failed++
			continue
		}
		a.log.Info("Uploaded %s as %q", f.RelativePath, name)
	}

	if failed > 0 {
		return fmt.Errorf("failed to upload %d out of %d files", failed, len(files))
	}
	return nil
}

func (a *app) ask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	subject := fs.String("subject", "", "subject to ask about")
	question := fs.String("question", "", "question to ask")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := a.ctrl.LoadSubjects(ctx); err != nil {
		return err
	}
	if !a.ctrl.SelectSubject(*subject) {
		return fmt.Errorf("%w: %s", api.ErrSubjectNotFound, *subject)
	}

	answer, err := a.ctrl.Ask(ctx, *question)
	if errors.Is(err, controller.ErrNotReady) {
		return fmt.Errorf("a -question is required")
	}
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

func (a *app) health(ctx context.Context) error {
	client := api.NewClient(a.cfg.Server.BaseURL, a.log, api.WithTimeout(a.cfg.Server.Timeout))
	if err := client.Health(ctx); err != nil {
		return err
	}
	fmt.Printf("%s is healthy\n", client.BaseURL())
	return nil
}

func (a *app) serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:8080", "listen address")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	// A failed first load is shown on the page; the server still starts.
	_ = a.ctrl.Init(ctx)

	return web.NewServer(a.ctrl, a.page, a.log).Run(ctx, *addr)
}
