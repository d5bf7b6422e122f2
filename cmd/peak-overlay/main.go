package main

import (
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"peak-overlay/internal/clipboard"
	"peak-overlay/internal/config"
	"peak-overlay/internal/controllers"
	"peak-overlay/internal/imaging"
	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
	"peak-overlay/internal/opencv"
	"peak-overlay/internal/render"
	"peak-overlay/internal/services"
	"peak-overlay/internal/shutdown"
	"peak-overlay/internal/timing"
	"peak-overlay/internal/views"
)

const (
	AppName      = "Peak Overlay"
	AppID        = "org.crystallography.peak-overlay"
	AppVersion   = "1.0.0"
	WindowWidth  = 1280
	WindowHeight = 860
)

// Application holds the long-lived components of one window.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	ring    *logger.Ring
	cfg     config.Config

	controller   *controllers.MainController
	view         *views.MainView
	imageService *services.ImageService
	coordinator  *render.Coordinator
	sampler      *clipboard.Sampler
	dispatcher   *clipboard.Dispatcher
	imageRepo    *models.ImageRepository

	shutdown *shutdown.Manager
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		bootstrap := logger.NewConsoleLogger(logger.InfoLevel)
		bootstrap.Error("Main", err, map[string]interface{}{
			"env": config.EnvPath,
		})
		os.Exit(1)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		application.logger.Error("Main", err, nil)
		os.Exit(1)
	}

	application.Run()
}

// NewApplication builds every component and wires them together. It returns
// a partially built Application alongside an error so the caller can log.
func NewApplication(cfg config.Config) (*Application, error) {
	ring := logger.NewRing(cfg.OutputLines)
	appLogger := logger.NewConsoleLogger(cfg.Level(os.Getenv), ring)

	a := &Application{ring: ring, logger: appLogger, cfg: cfg}

	a.fyneApp = app.NewWithID(AppID)
	a.fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	a.window = a.fyneApp.NewWindow(AppName)
	a.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	a.window.CenterOnScreen()

	a.imageRepo = models.NewImageRepository()
	imageService, err := services.NewImageService(cfg.ImageBackend, a.imageRepo, appLogger,
		opencv.NewReader(appLogger),
		imaging.NewTIFFReader(appLogger),
	)
	if err != nil {
		return a, err
	}
	a.imageService = imageService

	a.view = views.NewMainView(a.window, views.Options{
		Palettes:   render.PaletteNames,
		Initial:    cfg.RenderState(),
		Debug:      cfg.Debug,
		Extensions: imageService.Extensions(),
	})

	timings := timing.NewTracker(timing.DefaultWindow)
	executor := render.NewExecutor(a.view.Plot(), appLogger)
	executor.SetTimings(timings)
	a.coordinator = render.NewCoordinator(cfg.RenderState(), views.MainThreadSurface(),
		executor, a.imageRepo, appLogger)

	source := clipboard.NewFyneSource(a.window.Clipboard())
	a.dispatcher = clipboard.NewDispatcher(cfg.BatchBuffer, appLogger)
	a.sampler = clipboard.NewSampler(source, func(snapshot string) {
		a.dispatcher.Offer(snapshot)
	}, cfg.PollInterval.Duration, appLogger)

	a.controller = controllers.NewMainController(controllers.Dependencies{
		Coordinator: a.coordinator,
		Images:      imageService,
		Sampler:     a.sampler,
		Dispatcher:  a.dispatcher,
		Clipboard:   source,
		Timings:     timings,
		Logger:      appLogger,
	})
	a.controller.SetView(a.view)

	if cfg.Debug {
		ring.SetOnChange(a.view.SetOutput)
	}

	a.shutdown = shutdown.NewManager(appLogger, shutdown.DefaultTimeout)
	a.shutdown.Register("image repository", shutdown.Func(a.imageRepo.Shutdown))
	a.shutdown.Register("controller", a.controller)

	a.setupWindowEvents()

	appLogger.Info("Main", "application initialized", map[string]interface{}{
		"version":       AppVersion,
		"go_version":    runtime.Version(),
		"image_backend": imageService.Backend(),
		"palette":       cfg.Palette,
		"poll_interval": cfg.PollInterval.String(),
		"debug":         cfg.Debug,
	})

	return a, nil
}

// Run blocks until the window is closed or the process is signalled.
func (a *Application) Run() {
	a.controller.Start()
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.window.ShowAndRun()

	// covers app.Quit paths that bypass the close intercept
	a.shutdown.Shutdown()
	a.logger.Info("Main", "application terminated", nil)
}

func (a *Application) setupWindowEvents() {
	// The sampler reads the clipboard through the UI goroutine, so stopping
	// it from here would deadlock. Tear down in the background, then close.
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Main", "window close requested", nil)
		go func() {
			a.shutdown.Shutdown()
			fyne.Do(a.window.Close)
		}()
	})
}
