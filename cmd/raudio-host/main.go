// Command raudio-host is a terminal harness standing in for a DAW plug-in
// shell: it builds a demo graph, drives it with synthetic audio blocks at
// a fixed tick rate, and renders live meter/spectrum readouts alongside
// the engine's diagnostic log. It is a debugging and demonstration tool,
// not part of the engine's core contract.
package main

import (
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/internal/nodes"
	"github.com/basswave/raudio/pkg/config"
)

const tickRate = 80 * time.Millisecond

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			Width(78)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(78)

	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(10)
	valueStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	spinner spinner.Model
	peakBar progress.Model
	rmsBar  progress.Model

	eng      *engine.Engine
	meter    *nodes.Meter
	spectrum *nodes.Spectrum
	logs     *logTail

	hostOutput [][]float32
	blockSize  int

	tickCount uint64
	ready     bool
}

func initialModel(eng *engine.Engine, meter *nodes.Meter, spectrum *nodes.Spectrum, logs *logTail, channels, blockSize int) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	hostOutput := make([][]float32, channels)
	for ch := range hostOutput {
		hostOutput[ch] = make([]float32, blockSize)
	}

	return model{
		spinner:    s,
		peakBar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		rmsBar:     progress.New(progress.WithSolidFill("63"), progress.WithWidth(40)),
		eng:        eng,
		meter:      meter,
		spectrum:   spectrum,
		logs:       logs,
		hostOutput: hostOutput,
		blockSize:  blockSize,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tickMsg:
		m.tickCount++
		m.wobbleFrequency()
		m.eng.ProcessBlock(nil, m.hostOutput, m.blockSize)
		m.ready = true
		cmds = append(cmds, tick())
	}

	return m, tea.Batch(cmds...)
}

// wobbleFrequency nudges the oscillator's frequency through the queued
// SPSC parameter path every few ticks, exercising the same path a host's
// automation lane would use instead of the direct fast-path setter.
func (m model) wobbleFrequency() {
	if m.tickCount%10 != 0 {
		return
	}
	swing := 80 * math.Sin(float64(m.tickCount)/10)
	m.eng.QueueParamUpdate(demoNodeOscillator, map[string]float32{
		"frequency": float32(220 + swing),
	})
}

func (m model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n%s Warming up the graph...", m.spinner.View())
	}

	header := headerStyle.Render(fmt.Sprintf("%s raudio-host — block #%d", m.spinner.View(), m.tickCount))

	peak := clamp01(m.meter.GetPeak())
	rms := clamp01(m.meter.GetRMS())
	hold := m.meter.GetHold()

	meterPane := paneStyle.Render(strings.Join([]string{
		labelStyle.Render("peak") + " " + m.peakBar.ViewAs(float64(peak)) + " " + valueStyle.Render(fmt.Sprintf("%.3f", peak)),
		labelStyle.Render("rms") + " " + m.rmsBar.ViewAs(float64(rms)) + " " + valueStyle.Render(fmt.Sprintf("%.3f", rms)),
		labelStyle.Render("hold") + " " + subtleStyle.Render(fmt.Sprintf("%.3f", hold)),
	}, "\n"))

	spectrumPane := paneStyle.Render(renderSpectrum(m.spectrum))

	logLines := m.logs.Tail()
	logBody := subtleStyle.Render("(no diagnostics yet)")
	if len(logLines) > 0 {
		logBody = strings.Join(logLines, "\n")
	}
	logPane := paneStyle.Render(lipgloss.NewStyle().Bold(true).Render("diagnostics") + "\n" + logBody)

	footer := subtleStyle.Render("Press q to quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, meterPane, spectrumPane, logPane, footer)
}

// renderSpectrum downsamples the spectrum node's 1024-bin magnitude
// vector into a fixed number of ASCII columns for terminal display.
func renderSpectrum(s *nodes.Spectrum) string {
	const columns = 48
	const rows = 8

	mags := s.Magnitudes(nil)
	if len(mags) == 0 {
		return subtleStyle.Render("spectrum: awaiting first ring fill")
	}

	bucketSize := len(mags) / columns
	if bucketSize == 0 {
		bucketSize = 1
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("spectrum"))
	sb.WriteString("\n")
	for row := rows; row >= 1; row-- {
		threshold := float64(row) / float64(rows)
		for col := 0; col < columns; col++ {
			start := col * bucketSize
			end := start + bucketSize
			if end > len(mags) {
				end = len(mags)
			}
			peak := 0.0
			for _, v := range mags[start:end] {
				if v > peak {
					peak = v
				}
			}
			if peak >= threshold {
				sb.WriteString(barStyle.Render("█"))
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to an engine config YAML file")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "raudio-host: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logs := newLogTail(12)
	diag := engine.NewDiagnosticsWithOutput(logs)

	registry := prometheus.NewRegistry()
	var metrics *engine.Metrics
	if cfg.Metrics.Enabled {
		metrics = engine.NewMetrics(registry)
		go serveMetrics(cfg.Metrics.Addr, registry)
	}

	cat := engine.NewCatalogue()
	nodes.RegisterAll(cat)

	eng := engine.NewEngine(cat, diag, metrics, engine.Config{
		SampleRate:   cfg.Engine.SampleRate,
		MaxBlockSize: cfg.Engine.MaxBlockSize,
		Channels:     cfg.Engine.Channels,
		RingCapacity: cfg.Engine.RingCapacity,
		PoolSlots:    cfg.Engine.BufferPoolSlots,
	})

	ops, err := buildDemoGraph()
	if err != nil {
		fmt.Fprintf(os.Stderr, "raudio-host: build demo graph: %v\n", err)
		os.Exit(1)
	}
	eng.SubmitOps(ops...)

	snap := eng.ActiveSnapshot()
	meterNode, ok := snap.NodeLookup[demoNodeMeter].(*nodes.Meter)
	if !ok {
		fmt.Fprintln(os.Stderr, "raudio-host: meter node missing from snapshot")
		os.Exit(1)
	}
	spectrumNode, ok := snap.NodeLookup[demoNodeSpectrum].(*nodes.Spectrum)
	if !ok {
		fmt.Fprintln(os.Stderr, "raudio-host: spectrum node missing from snapshot")
		os.Exit(1)
	}

	m := initialModel(eng, meterNode, spectrumNode, logs, cfg.Engine.Channels, cfg.Engine.MaxBlockSize)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "raudio-host: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	_ = http.ListenAndServe(addr, mux)
}
