package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sweeney/button-stopwatch/internal/config"
	"github.com/sweeney/button-stopwatch/internal/controller"
	"github.com/sweeney/button-stopwatch/internal/display"
	"github.com/sweeney/button-stopwatch/internal/edge"
	"github.com/sweeney/button-stopwatch/internal/gpio"
	"github.com/sweeney/button-stopwatch/internal/indicator"
	"github.com/sweeney/button-stopwatch/internal/logic"
	"github.com/sweeney/button-stopwatch/internal/metrics"
	"github.com/sweeney/button-stopwatch/internal/mqtt"
	"github.com/sweeney/button-stopwatch/internal/status"
	"github.com/sweeney/button-stopwatch/internal/systemd"
	"github.com/sweeney/button-stopwatch/internal/web"
)

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The display owns stdout.
	logger := setupLogger(cfg.Logging, os.Stderr)
	log.Logger = logger

	logger.Info().
		Str("version", version).
		Str("config", configPath).
		Msg("Starting button-stopwatch")

	tracker := status.NewTracker(time.Now(), statusConfig(cfg))

	fan := edge.New()
	fan.OnDrop(func(ev logic.ButtonEvent) {
		metrics.EdgesDroppedTotal.Inc()
		logger.Warn().Bool("pressed", ev.Pressed).Time("at", ev.Time).Msg("edge dropped, consumer queue full")
	})
	defer fan.Close()
	events := fan.Subscribe(cfg.Edge.QueueDepth)

	button, err := gpio.NewRealButton(cfg.Pins(), func(ev logic.ButtonEvent) { fan.Publish(ev) })
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer button.Close()

	leds, err := gpio.NewRealIndicators(cfg.Pins())
	if err != nil {
		return fmt.Errorf("init indicators: %w", err)
	}
	defer leds.Close()

	logger.Info().
		Str("chip", cfg.GPIO.Chip).
		Int("button", cfg.GPIO.ButtonPin).
		Int("led0", cfg.GPIO.LED0Pin).
		Int("led1", cfg.GPIO.LED1Pin).
		Msg("GPIO initialized")

	d := &stopwatchDaemon{
		cfg:     cfg,
		tracker: tracker,
		events:  events,
		dropped: fan.Dropped,
		leds:    leds,
		display: displayDevice(cfg.Display.Output, os.Stdout),
		log:     logger,
		now:     time.Now,
		notify:  systemd.Notify,
	}
	if cfg.MQTT.Broker != "" {
		publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, logger)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer publisher.Close()
		d.publisher = publisher
		d.mqttStatus = publisher
	} else {
		logger.Info().Msg("MQTT disabled")
	}

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		if err := startHTTP(srv, logger); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("Error stopping HTTP server")
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return d.run(sigCh)
}

// displayDevice picks the display for the configured output. In auto mode
// the terminal display is only used when stdout is a tty, so the journal
// does not receive cursor escapes.
func displayDevice(output string, f *os.File) display.Device {
	switch output {
	case "stdout":
		return display.NewTerminal(f)
	case "auto":
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return display.NewTerminal(f)
		}
	}
	return display.Discard{}
}

// startHTTP serves on the socket-activated listener if systemd provided one,
// otherwise on the configured address.
func startHTTP(srv *web.Server, logger zerolog.Logger) error {
	ln, err := systemd.HTTPListener()
	if err != nil {
		return err
	}

	go func() {
		var err error
		if ln != nil {
			logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP status server using systemd socket")
			err = srv.Serve(ln)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()
	if ln == nil {
		logger.Info().Str("addr", srv.Addr()).Msg("HTTP status server listening")
	}
	return nil
}

func statusConfig(cfg *config.Config) status.Config {
	return status.Config{
		DisplayTickMs:   cfg.Timing.DisplayTick.Milliseconds(),
		IndicatorTickMs: cfg.Timing.IndicatorTick.Milliseconds(),
		MediumHoldMs:    cfg.Timing.MediumHold.Milliseconds(),
		LongHoldMs:      cfg.Timing.LongHold.Milliseconds(),
		HeartbeatMs:     cfg.MQTT.Heartbeat.Milliseconds(),
		Broker:          cfg.MQTT.Broker,
		HTTPAddr:        cfg.HTTP.Addr,
	}
}

// stopwatchDaemon wires the controller and the render loops together.
// Hardware and transports are injected so the lifecycle can run against fakes.
type stopwatchDaemon struct {
	cfg     *config.Config
	tracker *status.Tracker
	events  <-chan logic.ButtonEvent
	dropped func() uint64

	leds       gpio.Indicators
	display    display.Device
	publisher  mqtt.Publisher // nil when MQTT is disabled
	mqttStatus mqtt.ConnectionStatus

	log    zerolog.Logger
	now    func() time.Time
	notify systemd.Notifier
}

// run starts every loop, blocks until a signal arrives and then shuts down
// in order: loops first, then the SHUTDOWN event.
func (d *stopwatchDaemon) run(sig <-chan os.Signal) error {
	ctrl := controller.New(controller.Config{
		MediumHold: d.cfg.Timing.MediumHold,
		LongHold:   d.cfg.Timing.LongHold,
		Heartbeat:  d.cfg.MQTT.Heartbeat,
	}, d.tracker, d.publisher, d.mqttStatus, d.dropped, d.log)

	d.publishSystem("STARTUP", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	loop := func(name string, every time.Duration, fn func(tick <-chan time.Time) error) {
		ticker := time.NewTicker(every)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer ticker.Stop()
			if err := fn(ticker.C); err != nil {
				d.log.Error().Err(err).Str("loop", name).Msg("loop stopped")
			}
		}()
	}

	loop("controller", d.cfg.Timing.ControlTick, func(tick <-chan time.Time) error {
		return ctrl.Run(ctx, d.events, tick, d.now)
	})
	loop("display", d.cfg.Timing.DisplayTick, func(tick <-chan time.Time) error {
		return display.Run(ctx, d.display, d.tracker, tick, d.log)
	})
	loop("indicator", d.cfg.Timing.IndicatorTick, func(tick <-chan time.Time) error {
		return indicator.Run(ctx, d.leds, d.tracker, tick, d.log)
	})
	if every := systemd.WatchdogInterval(); every > 0 {
		loop("watchdog", every, func(tick <-chan time.Time) error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-tick:
					d.sdNotify(daemon.SdNotifyWatchdog)
				}
			}
		})
	}

	d.sdNotify(daemon.SdNotifyReady)
	d.log.Info().
		Dur("medium_hold", d.cfg.Timing.MediumHold).
		Dur("long_hold", d.cfg.Timing.LongHold).
		Dur("control_tick", d.cfg.Timing.ControlTick).
		Dur("display_tick", d.cfg.Timing.DisplayTick).
		Dur("heartbeat", d.cfg.MQTT.Heartbeat).
		Msg("started")

	s := <-sig
	reason := signalName(s)
	d.log.Info().Str("signal", reason).Msg("shutting down")
	d.sdNotify(daemon.SdNotifyStopping)

	cancel()
	wg.Wait()

	d.publishSystem("SHUTDOWN", reason)
	return nil
}

func (d *stopwatchDaemon) publishSystem(event, reason string) {
	if d.publisher == nil {
		return
	}
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
	snap := d.tracker.Snapshot()
	err := d.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	})
	if err != nil {
		d.log.Warn().Err(err).Str("event", event).Msg("failed to publish system event")
		return
	}
	d.log.Info().Str("event", event).Msg("published system event")
}

func (d *stopwatchDaemon) sdNotify(state string) {
	if d.notify == nil {
		return
	}
	if err := d.notify(state); err != nil {
		d.log.Warn().Err(err).Msg("sd_notify failed")
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
