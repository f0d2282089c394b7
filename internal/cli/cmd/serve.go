package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/matjam/smoothslide/internal/ipc"
	"github.com/matjam/smoothslide/internal/scheduler"
	"github.com/matjam/smoothslide/internal/slideshow"
	"github.com/sevlyar/go-daemon"
	"github.com/spf13/viper"
)

// Daemonize re-executes the process in the background. It returns true in
// the parent, which should exit.
func Daemonize() (bool, error) {
	dctx := &daemon.Context{
		WorkDir: "/",
		Umask:   0o27,
	}
	child, err := dctx.Reborn()
	if err != nil {
		return false, err
	}
	if child != nil {
		log.Infof("smoothslide running in background as PID %d", child.Pid)
		return true, nil
	}
	return false, nil
}

// RunShow runs the slideshow on the given display backend, with its control
// socket, until the show closes or the process is signalled. It returns the
// exit status.
func RunShow(autostart bool, opts slideshow.Options) int {
	log.Infof("RunShow() started in PID: %d", os.Getpid())

	if daemon.WasReborn() {
		setupRotatingLogger()
	}

	socket := ipc.SocketPath(viper.GetString("socket"))
	if alreadyRunning(socket) {
		log.Infof("smoothslide is already running on %s, exiting", socket)
		return 0
	}

	cfg, err := ShowConfig()
	if err != nil {
		log.Errorf("invalid configuration: %v", err)
		return 1
	}

	loop := scheduler.NewLoop()
	engine, err := slideshow.New(cfg, loop, opts)
	if err != nil {
		log.Errorf("invalid configuration: %v", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// exit is only touched on the control loop until it has stopped
	exit := 0
	engine.Subscribe(func(ev slideshow.Event) {
		switch ev := ev.(type) {
		case slideshow.SlideChanged:
			log.Debugf("loaded slide %d", ev.Slide)
		case slideshow.Closing:
			if ev.Err != nil {
				log.Errorf("closing: %s", ev.Reason)
				exit = 1
			} else {
				log.Infof("closing: %s", ev.Reason)
			}
			cancel()
		}
	})

	shutdown := func() {
		loop.Post(func() {
			engine.Stop()
			cancel()
		})
	}

	signals, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	go func() {
		<-signals.Done()
		shutdown()
	}()

	server := ipc.NewServer(socket, slideshow.NewController(loop, engine), shutdown)
	go func() {
		log.Infof("Starting socket server")
		if err := server.ListenAndServe(); err != nil {
			log.Errorf("%v", err)
		}
	}()

	if autostart {
		loop.Post(func() {
			if err := engine.Start(nil); err != nil {
				log.Errorf("unable to start slideshow: %v", err)
				exit = 1
				engine.Stop()
				cancel()
			}
		})
	}

	loop.Run(ctx)

	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("socket server shutdown: %v", err)
	}

	log.Infof("smoothslide exited")
	return exit
}

func alreadyRunning(socket string) bool {
	client := ipc.NewClient(socket)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := client.Status(ctx)
	return err == nil
}

func setupRotatingLogger() {
	home := os.Getenv("HOME")
	logDir := filepath.Join(home, ".local", "share", "smoothslide")
	logPath := filepath.Join(logDir, "smoothslide.log")

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}

	writer, err := rotatelogs.New(
		logPath+".%Y%m%d%H%M",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationSize(10*1024*1024),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		log.Fatalf("failed to configure log rotation: %v", err)
	}

	log.SetOutput(writer)
}
