package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/buzzer-sweep/internal/gpio"
	"github.com/sweeney/buzzer-sweep/internal/logic"
	"github.com/sweeney/buzzer-sweep/internal/mqtt"
	"github.com/sweeney/buzzer-sweep/internal/status"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

// TestEnvVarNames verifies the env var constants match what pi-helper writes
// to /run/pi-helper.env.
func TestEnvVarNames(t *testing.T) {
	want := map[string]string{
		"NETWORK_TYPE":        envNetworkType,
		"NETWORK_IP":          envNetworkIP,
		"NETWORK_STATUS":      envNetworkStatus,
		"NETWORK_GATEWAY":     envNetworkGateway,
		"NETWORK_WIFI_STATUS": envNetworkWifiStatus,
		"NETWORK_WIFI_SSID":   envNetworkWifiSSID,
	}
	for canonical, got := range want {
		if got != canonical {
			t.Errorf("env var constant: got %q, want %q", got, canonical)
		}
	}
}

func TestReadNetworkInfoAllSet(t *testing.T) {
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.100")
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkGateway, "192.168.1.1")
	t.Setenv(envNetworkWifiStatus, "connected")
	t.Setenv(envNetworkWifiSSID, "MyNetwork")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected non-nil NetworkInfo")
	}

	want := status.NetworkInfo{
		Type:       "wifi",
		IP:         "192.168.1.100",
		Status:     "connected",
		Gateway:    "192.168.1.1",
		WifiStatus: "connected",
		SSID:       "MyNetwork",
	}
	if *info != want {
		t.Errorf("got %+v, want %+v", *info, want)
	}
}

func TestReadNetworkInfoNoneSet(t *testing.T) {
	if info := readNetworkInfo(); info != nil {
		t.Errorf("expected nil when NETWORK_STATUS is unset, got %+v", info)
	}
}

func TestReadNetworkInfoPartial(t *testing.T) {
	t.Setenv(envNetworkStatus, "connected")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected non-nil NetworkInfo when NETWORK_STATUS is set")
	}
	if *info != (status.NetworkInfo{Status: "connected"}) {
		t.Errorf("expected only Status set, got %+v", *info)
	}
}

// --- runLoop tests ---

// fakeClock returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Only runLoop's goroutine calls it.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newTracker() *status.Tracker {
	return status.NewTracker(t0, status.Config{Chip: "gpiochip0", Broker: "tcp://test:1883"})
}

func press(typ logic.EventType, s logic.State, delay uint16, counts logic.EventCounts) transition {
	return transition{
		event:  logic.Event{Timestamp: t0, Type: typ, State: s, Delay: delay},
		counts: counts,
	}
}

// runRunLoop feeds transitions, then nTicks ticks, then the signal, and
// returns runLoop's result.
func runRunLoop(t *testing.T, pub *mqtt.FakePublisher, tracker *status.Tracker, heartbeat time.Duration, clock func() time.Time, transitions []transition, nTicks int, signal os.Signal) error {
	t.Helper()
	tick := make(chan time.Time)
	events := make(chan transition)
	sig := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(pub, pub, tracker, heartbeat, clock, tick, events, sig)
	}()

	for _, tr := range transitions {
		events <- tr
	}
	for i := 0; i < nTicks; i++ {
		tick <- time.Time{}
	}
	sig <- signal

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("runLoop did not return")
		return nil
	}
}

func TestRunLoopPublishesTransitions(t *testing.T) {
	pub := mqtt.NewFakePublisher()
	tracker := newTracker()
	on := logic.State{Active: true}
	trs := []transition{
		press(logic.EventPowerOn, on, 37, logic.EventCounts{PowerOn: 1}),
		press(logic.EventPattern, logic.State{Active: true, Pattern: sweep.ZigZag}, 37, logic.EventCounts{PowerOn: 1, Pattern: 1}),
		press(logic.EventRange, logic.State{Active: true, Pattern: sweep.ZigZag, Range: sweep.High}, 13, logic.EventCounts{PowerOn: 1, Pattern: 1, Range: 1}),
	}

	err := runRunLoop(t, pub, tracker, 0, fakeClock(t0, time.Second), trs, 0, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	got := pub.EventTypes()
	want := []logic.EventType{logic.EventPowerOn, logic.EventPattern, logic.EventRange}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}

	snap := tracker.Snapshot()
	if snap.State.Range != sweep.High || snap.State.Pattern != sweep.ZigZag || snap.Delay != 13 {
		t.Errorf("tracker not updated: %+v delay=%d", snap.State, snap.Delay)
	}
	if snap.Counts.Range != 1 || snap.Counts.Pattern != 1 {
		t.Errorf("tracker counts not updated: %+v", snap.Counts)
	}
}

func TestRunLoopNoTransitionsOnlyShutdown(t *testing.T) {
	pub := mqtt.NewFakePublisher()

	err := runRunLoop(t, pub, newTracker(), 0, fakeClock(t0, time.Second), nil, 5, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if len(pub.Events) != 0 {
		t.Errorf("expected 0 events, got %d", len(pub.Events))
	}
	if names := pub.SystemEventNames(); len(names) != 1 || names[0] != "SHUTDOWN" {
		t.Errorf("expected only SHUTDOWN, got %v", names)
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	// Clock calls: t0 (start), then one per tick at +5m each. With a 15-minute
	// interval the third tick (t0+15m) fires.
	pub := mqtt.NewFakePublisher()
	trs := []transition{press(logic.EventSpeed, logic.State{Speed: 1}, 37, logic.EventCounts{Speed: 1})}

	err := runRunLoop(t, pub, newTracker(), 15*time.Minute, fakeClock(t0, 5*time.Minute), trs, 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	var heartbeats int
	for i, se := range pub.SystemEvents {
		if se.Event != "HEARTBEAT" {
			continue
		}
		heartbeats++
		var payload struct {
			Status struct {
				EventCounts struct {
					Speed int `json:"speed"`
				} `json:"event_counts"`
			} `json:"status"`
		}
		if err := json.Unmarshal(pub.SystemPayloads[i], &payload); err != nil {
			t.Fatalf("heartbeat payload: %v", err)
		}
		if payload.Status.EventCounts.Speed != 1 {
			t.Errorf("expected heartbeat to carry speed count 1, got %d", payload.Status.EventCounts.Speed)
		}
	}
	if heartbeats != 1 {
		t.Errorf("expected 1 HEARTBEAT, got %d (%v)", heartbeats, pub.SystemEventNames())
	}
}

func TestRunLoopHeartbeatDisabled(t *testing.T) {
	pub := mqtt.NewFakePublisher()

	err := runRunLoop(t, pub, newTracker(), 0, fakeClock(t0, time.Hour), nil, 10, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	for _, name := range pub.SystemEventNames() {
		if name == "HEARTBEAT" {
			t.Fatal("heartbeat should be disabled with interval 0")
		}
	}
}

func TestRunLoopPublishError(t *testing.T) {
	pub := mqtt.NewFakePublisher()
	pub.PublishError = fmt.Errorf("broker unavailable")
	trs := []transition{press(logic.EventPowerOn, logic.State{Active: true}, 37, logic.EventCounts{PowerOn: 1})}

	err := runRunLoop(t, pub, newTracker(), 0, fakeClock(t0, time.Second), trs, 1, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if len(pub.Events) != 0 {
		t.Errorf("expected 0 recorded events (publish failed), got %d", len(pub.Events))
	}
	if names := pub.SystemEventNames(); len(names) != 1 || names[0] != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN despite publish errors, got %v", names)
	}
}

func TestRunLoopShutdownReason(t *testing.T) {
	tests := []struct {
		sig  os.Signal
		want string
	}{
		{syscall.SIGINT, "SIGINT"},
		{syscall.SIGTERM, "SIGTERM"},
		{syscall.SIGHUP, "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			pub := mqtt.NewFakePublisher()
			if err := runRunLoop(t, pub, newTracker(), 0, fakeClock(t0, time.Second), nil, 0, tt.sig); err != nil {
				t.Fatalf("runLoop returned error: %v", err)
			}
			if len(pub.SystemEvents) != 1 {
				t.Fatalf("expected 1 system event, got %d", len(pub.SystemEvents))
			}
			se := pub.SystemEvents[0]
			if se.Event != "SHUTDOWN" || se.Reason != tt.want {
				t.Errorf("got %s/%s, want SHUTDOWN/%s", se.Event, se.Reason, tt.want)
			}
			if !se.Retained {
				t.Error("expected Retained=true for SHUTDOWN")
			}
			if !strings.Contains(string(se.RawPayload), `"reason":"`+tt.want+`"`) {
				t.Errorf("payload missing reason: %s", se.RawPayload)
			}
		})
	}
}

func TestRunLoopHeartbeatIncludesNetworkInfo(t *testing.T) {
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.42")

	pub := mqtt.NewFakePublisher()
	tracker := newTracker()
	err := runRunLoop(t, pub, tracker, time.Minute, fakeClock(t0, time.Minute), nil, 1, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	net := tracker.Snapshot().Network
	if net == nil || net.IP != "192.168.1.42" || net.Type != "wifi" {
		t.Fatalf("expected network info refreshed on heartbeat, got %+v", net)
	}
	for i, se := range pub.SystemEvents {
		if se.Event == "HEARTBEAT" && !strings.Contains(string(pub.SystemPayloads[i]), "192.168.1.42") {
			t.Errorf("heartbeat payload missing network IP: %s", pub.SystemPayloads[i])
		}
	}
}

// --- controlLoop tests ---

func TestControlLoopDeliversTransitions(t *testing.T) {
	board := gpio.NewFakeBoard()
	ctrl := logic.NewController(logic.Config{
		Inputs:  board,
		Speaker: board,
		Display: board,
		Settle:  time.Microsecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan transition, 4)
	progressed := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		controlLoop(ctx, ctrl, out, func(*logic.Controller) {
			select {
			case progressed <- struct{}{}:
			default:
			}
		})
		close(done)
	}()

	board.Hold(logic.ButtonPower, true)

	select {
	case tr := <-out:
		if tr.event.Type != logic.EventPowerOn {
			t.Errorf("expected POWER_ON, got %s", tr.event.Type)
		}
		if tr.counts.PowerOn != 1 {
			t.Errorf("expected counts with one POWER_ON, got %+v", tr.counts)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no transition delivered")
	}

	select {
	case <-progressed:
	case <-time.After(2 * time.Second):
		t.Fatal("progress never sampled")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("controlLoop did not stop")
	}
	if board.Toggles() == 0 {
		t.Error("expected the tone to toggle the buzzer while active")
	}
}

func TestControlLoopDropsWhenQueueFull(t *testing.T) {
	board := gpio.NewFakeBoard()
	ctrl := logic.NewController(logic.Config{Inputs: board, Speaker: board, Display: board, Settle: time.Microsecond})
	board.Hold(logic.ButtonPower, true)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan transition) // never read
	done := make(chan struct{})
	go func() {
		controlLoop(ctx, ctrl, out, nil)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for board.Toggles() == 0 {
		select {
		case <-deadline:
			t.Fatal("loop stalled on the undelivered POWER_ON")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("controlLoop did not stop")
	}
}

// --- readErrors tests ---

func TestReadErrorsRateLimited(t *testing.T) {
	var r readErrors
	clock := fakeClock(t0, time.Second)
	boom := errors.New("line gone")

	r.observe(boom, clock)
	if !r.failing || r.suppressed != 0 {
		t.Fatalf("first error should be logged, got %+v", r)
	}
	for i := 0; i < 3; i++ {
		r.observe(boom, clock)
	}
	if r.suppressed != 3 {
		t.Errorf("expected 3 suppressed, got %d", r.suppressed)
	}

	r.observe(boom, clock) // t0+4s, still inside the window
	r.observe(boom, clock) // t0+5s, logged again
	if r.suppressed != 0 || !r.last.Equal(t0.Add(5*time.Second)) {
		t.Errorf("expected a fresh report at +5s, got %+v", r)
	}

	r.observe(nil, clock)
	if r.failing {
		t.Error("expected recovery to clear failing")
	}
}

func TestReadErrorsNoClockWhenHealthy(t *testing.T) {
	var r readErrors
	r.observe(nil, func() time.Time {
		t.Fatal("clock should not be read without an error")
		return time.Time{}
	})
}

// --- command helpers ---

func TestPrintState(t *testing.T) {
	board := gpio.NewFakeBoard()
	board.Hold(logic.ButtonSpeed, true)

	var buf bytes.Buffer
	if err := printState(&buf, board); err != nil {
		t.Fatalf("printState: %v", err)
	}
	want := "POWER: RELEASED, PATTERN: RELEASED, SPEED: PRESSED, RANGE: RELEASED\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPrintStateReadError(t *testing.T) {
	board := gpio.NewFakeBoard()
	board.SetReadError(logic.ButtonRange, errors.New("bad line"))
	if err := printState(&bytes.Buffer{}, board); err == nil {
		t.Error("expected read error")
	}
}

func TestPinsFromFlagsDefaults(t *testing.T) {
	newRootCmd()
	pins, err := pinsFromFlags()
	if err != nil {
		t.Fatalf("pinsFromFlags: %v", err)
	}
	if pins != gpio.DefaultPins() {
		t.Errorf("got %+v, want defaults", pins)
	}
}

func TestPinsFromFlagsWrongCount(t *testing.T) {
	root := newRootCmd()
	if err := root.PersistentFlags().Set("pin-patterns", "1,2,3"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if _, err := pinsFromFlags(); err == nil {
		t.Error("expected error for 3 pattern pins")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"analyze", "--pattern", "siren", "--range", "high", "--seconds", "0.05"})

	if err := root.Execute(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out.String(), "SIREN") || !strings.Contains(out.String(), "HIGH") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "UP_SWEEP") {
		t.Error("single pattern requested, got others")
	}
}

func TestRunAnalyzeErrors(t *testing.T) {
	tests := []analyzeOptions{
		{pattern: "wobble", rng: "low", seconds: 0.01},
		{pattern: "all", rng: "middle", seconds: 0.01},
		{pattern: "siren", rng: "low", speed: 9, seconds: 0.01},
	}
	for _, opts := range tests {
		if err := runAnalyze(&bytes.Buffer{}, opts); err == nil {
			t.Errorf("%+v: expected error", opts)
		}
	}
}
