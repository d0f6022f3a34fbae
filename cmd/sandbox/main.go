package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/sandbox/game"
	"github.com/oomph-ac/sandbox/oerror"
	"github.com/oomph-ac/sandbox/recorder"
	"github.com/oomph-ac/sandbox/settings"
	"github.com/oomph-ac/sandbox/world"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var (
	configPath = flag.String("config", "sandbox.toml", "path to the settings file, created with defaults if missing")
	duration   = flag.Duration("duration", 30*time.Second, "simulated time to run the demo scene for")
	recordPath = flag.String("record", "", "file to record every tick to")
	fast       = flag.Bool("fast", false, "simulate as fast as possible instead of in real time")
)

// The following program runs a scripted demo scene: a character walking, jumping and shooting
// its drone at a pack of enemies, over a ground with obstacles and a moving platform.
func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	conf, err := loadSettings(*configPath)
	if err != nil {
		log.Fatalf("unable to load settings: %v", err)
	}
	if len(conf.Debug.Modes) > 0 {
		log.SetLevel(logrus.DebugLevel)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Fatalf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	w, err := world.New(conf, log)
	if err != nil {
		log.Fatalf("unable to create world: %v", err)
	}
	if *recordPath != "" {
		r, err := recorder.Create(*recordPath, log)
		if err != nil {
			log.Fatalf("unable to create recording: %v", err)
		}
		w.SetRecorder(r)
		defer func() {
			if err := r.Close(); err != nil {
				log.Errorf("recording incomplete: %v", err)
				return
			}
			log.Infof("recorded %d frames to %s", r.Frames(), *recordPath)
		}()
	}

	s, err := newScene(w, conf, log)
	if err != nil {
		log.Fatalf("unable to build scene: %v", err)
	}

	stop := atomic.NewBool(false)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("interrupted, stopping simulation")
		stop.Store(true)
	}()

	run(w, s, conf, log, stop)
}

// loadSettings loads the settings at path, writing the default settings there first if the file
// does not exist yet.
func loadSettings(path string) (settings.Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := settings.SaveDefault(path); err != nil {
			return settings.Settings{}, err
		}
	}
	return settings.Load(path)
}

// run ticks the world until the scripted duration elapsed or stop is set.
func run(w *world.World, s *scene, conf settings.Settings, log *logrus.Logger, stop *atomic.Bool) {
	dt := float32(1) / float32(conf.World.TickRate)
	ticks := int(duration.Seconds() * float64(conf.World.TickRate))

	t := time.NewTicker(time.Second / time.Duration(conf.World.TickRate))
	defer t.Stop()

	// durations holds how long each tick of the last simulated second took, in milliseconds.
	durations := make([]float64, 0, conf.World.TickRate)
	start := time.Now()
	for i := 0; i < ticks && !stop.Load(); i++ {
		if !*fast {
			<-t.C
		}
		tickStart := time.Now()
		if !tick(w, s, dt, log) {
			return
		}
		durations = append(durations, float64(time.Since(tickStart).Microseconds())/1000)

		if (i+1)%conf.World.TickRate == 0 {
			st := w.Stats()
			log.WithFields(logrus.Fields{
				"tick":       st.Tick,
				"entities":   st.Entities,
				"ephemerals": st.Ephemerals,
				"character":  s.character.StateName(),
				"drone":      s.drone.StateName(),
				"mean_ms":    fmt.Sprintf("%.3f", game.Mean(durations)),
				"median_ms":  fmt.Sprintf("%.3f", game.Median(durations)),
				"stddev_ms":  fmt.Sprintf("%.3f", game.StandardDeviation(durations)),
				"slow_ticks": game.Outliers(durations),
			}).Infof("simulated %.0fs", st.Time)
			durations = durations[:0]
		}
	}
	log.Infof("simulation finished in %v", time.Since(start))
}

// tick advances the world once. A panic in any controller is reported and stops the run.
func tick(w *world.World, s *scene, dt float32, log *logrus.Logger) (ok bool) {
	defer func() {
		if err := recover(); err != nil {
			log.Errorf("tick panic: %v", err)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("tick", fmt.Sprint(w.Stats().Tick))
			})
			hub.Recover(oerror.New("tick panic: %v", err))
			hub.Flush(time.Second * 5)
			ok = false
		}
	}()

	w.Tick(dt, s.input(w.Now()))
	return true
}
