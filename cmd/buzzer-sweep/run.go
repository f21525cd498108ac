package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sweeney/buzzer-sweep/internal/config"
	"github.com/sweeney/buzzer-sweep/internal/gpio"
	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/mqtt"
	"github.com/sweeney/buzzer-sweep/internal/status"
	"github.com/sweeney/buzzer-sweep/internal/tick"
	"github.com/sweeney/buzzer-sweep/internal/web"
)

type runOptions struct {
	chip      string
	pins      gpio.Pins
	settle    time.Duration
	tick      time.Duration
	broker    string
	heartbeat time.Duration
	httpAddr  string
}

// transition carries an event from the control loop to the reporter along
// with the counters as they stood after it.
type transition struct {
	event  logic.Event
	counts logic.EventCounts
}

func run(opts runOptions) error {
	board, err := gpio.NewRealBoard(opts.chip, opts.pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer board.Close()

	publisher := mqtt.NewRealPublisher(opts.broker)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Chip:        opts.chip,
		SettleMs:    opts.settle.Milliseconds(),
		TickUs:      opts.tick.Microseconds(),
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		Broker:      opts.broker,
		HTTPPort:    opts.httpAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	var active atomic.Bool
	ctrl := logic.NewController(logic.Config{
		Inputs:  board,
		Speaker: board,
		Display: board,
		Active:  &active,
		Settle:  opts.settle,
	})
	if err := ctrl.Refresh(); err != nil {
		return fmt.Errorf("refresh indicators: %w", err)
	}
	ticks := tick.New(&active, board)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan transition, config.EventQueue)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ticks.Run(ctx, opts.tick)
	}()
	go func() {
		defer wg.Done()
		controlLoop(ctx, ctrl, events, func(c *logic.Controller) {
			tracker.SetProgress(c.Delay(), c.Iterations(), ticks.Ticks(), board.WriteErrors())
		})
	}()
	defer func() {
		cancel()
		wg.Wait()
		board.Set(false)
		board.SetStatus(false)
	}()

	log.Printf("started: chip=%s settle=%v tick=%v broker=%s heartbeat=%v", opts.chip, opts.settle, opts.tick, opts.broker, opts.heartbeat)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(publisher, publisher, tracker, opts.heartbeat, time.Now, ticker.C, events, sigCh)
}

// controlLoop iterates the controller as fast as it will go until ctx is
// cancelled: the iteration rate is the tone's time base. Transitions are
// handed to the reporter without blocking; progress is sampled every
// config.ProgressEvery iterations.
func controlLoop(ctx context.Context, ctrl *logic.Controller, out chan<- transition, progress func(*logic.Controller)) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var errs readErrors
	var dropped int

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		events, err := ctrl.Iterate()
		errs.observe(err, time.Now)

		for _, e := range events {
			select {
			case out <- transition{event: e, counts: ctrl.Counts()}:
			default:
				dropped++
				log.Printf("event queue full, dropped %s (%d total)", e.Type, dropped)
			}
		}

		if progress != nil && ctrl.Iterations()%config.ProgressEvery == 0 {
			progress(ctrl)
		}
	}
}

// readErrors rate-limits input error logging: the first failure is logged,
// repeats at most every config.ReadErrorLog, and recovery once.
type readErrors struct {
	failing    bool
	last       time.Time
	suppressed int
}

func (r *readErrors) observe(err error, now func() time.Time) {
	if err == nil {
		if r.failing {
			log.Printf("gpio recovered after %d suppressed errors", r.suppressed)
			r.failing = false
			r.suppressed = 0
		}
		return
	}

	t := now()
	if r.failing && t.Sub(r.last) < config.ReadErrorLog {
		r.suppressed++
		return
	}
	log.Printf("gpio error: %v (%d suppressed)", err, r.suppressed)
	r.failing = true
	r.last = t
	r.suppressed = 0
}

func runLoop(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, events <-chan transition, sig <-chan os.Signal) error {
	hb := logic.NewHeartbeat(now())
	var counts logic.EventCounts

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case tr := <-events:
			e := tr.event
			counts = tr.counts
			log.Printf("event: %s (pattern=%s range=%s speed=%d delay=%d)",
				e.Type, e.State.Pattern, e.State.Range, e.State.Speed, e.Delay)
			if err := publisher.Publish(e); err != nil {
				log.Printf("publish error: %v", err)
			}
			if tracker != nil {
				tracker.Update(e.State, e.Delay, counts)
			}

		case <-tick:
			t := now()
			if hbData := hb.Check(t, heartbeat, counts); hbData != nil {
				log.Printf("heartbeat: uptime=%v power_on=%d power_off=%d pattern=%d speed=%d range=%d",
					hbData.Uptime, hbData.Counts.PowerOn, hbData.Counts.PowerOff,
					hbData.Counts.Pattern, hbData.Counts.Speed, hbData.Counts.Range)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}

// printState writes the raw level of every button as PRESSED or RELEASED.
func printState(w io.Writer, in logic.Inputs) error {
	parts := make([]string, 0, logic.ButtonCount)
	for b := logic.Button(0); b < logic.ButtonCount; b++ {
		high, err := in.ReadButton(b)
		if err != nil {
			return fmt.Errorf("read %s button: %w", b, err)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToUpper(b.String()), levelString(high)))
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, ", "))
	return err
}

// levelString names an active-low button level.
func levelString(high bool) string {
	if high {
		return "RELEASED"
	}
	return "PRESSED"
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
