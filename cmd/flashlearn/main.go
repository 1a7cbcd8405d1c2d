package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kpauljoseph/flashlearn/internal/api"
	"github.com/kpauljoseph/flashlearn/internal/config"
	"github.com/kpauljoseph/flashlearn/internal/controller"
	"github.com/kpauljoseph/flashlearn/internal/preflight"
	"github.com/kpauljoseph/flashlearn/internal/view"
	"github.com/kpauljoseph/flashlearn/pkg/logger"
	"github.com/kpauljoseph/flashlearn/pkg/version"
)

const usage = `Usage: flashlearn [flags] <command> [command flags]

Commands:
  subjects                          list subjects
  show <subject> [-reveal]          print a subject's summary, flashcards and quiz
  upload -subject S -file F         upload a PDF or TXT file
  upload -subject S -url U          upload a YouTube video
  upload -dir D [-subject ROOT]     upload every supported file under D
  ask -subject S -question Q        ask a question about a subject
  health                            check that the backend is reachable
  serve [-addr A]                   run the local web front
  version                           print version information

Flags:
`

type app struct {
	cfg  *config.Config
	log  *logger.Logger
	page *view.Page
	ctrl *controller.Controller
}

func main() {
	configPath := flag.String("config", "flashlearn.yaml", "path to config file")
	serverURL := flag.String("server", "", "backend base URL (overrides config)")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.New(logger.WithPrefix("[flashlearn] "))
	log.SetVerbose(*verbose)
	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
		if err := cfg.Validate(); err != nil {
			log.Fatal("Invalid -server: %v", err)
		}
	}
	log.Debug("Using backend %s", cfg.Server.BaseURL)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := newApp(cfg, log)
	defer a.ctrl.Close()

	command, args := flag.Arg(0), flag.Args()[1:]
	if err := a.run(ctx, command, args); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", controller.UserMessage(err, err.Error()))
		log.Debug("%s failed: %v", command, err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, log *logger.Logger) *app {
	client := api.NewClient(cfg.Server.BaseURL, log, api.WithTimeout(cfg.Server.Timeout))
	page := view.NewPage()

	options := []controller.Option{
		controller.WithLogger(log),
		controller.WithErrorDuration(cfg.UI.ErrorDuration),
	}
	if cfg.PreflightEnabled() {
		options = append(options, controller.WithPreflight(preflight.NewInspector(cfg.Upload.AllowedExtensions, log)))
	}

	return &app{
		cfg:  cfg,
		log:  log,
		page: page,
		ctrl: controller.New(client, page, options...),
	}
}

var errUsage = errors.New("usage")

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "subjects":
		return a.listSubjects(ctx)
	case "show":
		return a.show(ctx, args)
	case "upload":
		return a.upload(ctx, args)
	case "ask":
		return a.ask(ctx, args)
	case "health":
		return a.health(ctx)
	case "serve":
		return a.serve(ctx, args)
	case "version":
		fmt.Print(version.GetDetailedVersionInfo())
		return nil
	}
	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
	return errUsage
}
