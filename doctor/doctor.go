// Package doctor probes every external piece quill leans on and prints
// one line per check. It never prompts; run it before filing a bug.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"quill/capture"
	"quill/deliver"
	"quill/engine"
	"quill/hotkey"
)

// Options select what to probe.
type Options struct {
	Recorder string          // capture command, e.g. pw-record
	Device   string          // configured source, may be empty
	Engine   engine.Selector // engine to load
	Hotkey   bool            // whether -hotkey is requested
	Paste    bool            // whether -paste is requested
}

type status int

const (
	statusOK status = iota
	statusSkip
	statusFail
)

type result struct {
	status status
	detail string
	hint   string
}

func ok(detail string) result   { return result{status: statusOK, detail: detail} }
func skip(detail string) result { return result{status: statusSkip, detail: detail} }
func fail(detail, hint string) result {
	return result{status: statusFail, detail: detail, hint: hint}
}

type check struct {
	name string
	run  func(Options) result
}

var checks = []check{
	{"display server", checkDisplay},
	{"recorder", checkRecorder},
	{"capture sources", checkSources},
	{"capture device", checkDevice},
	{"staging dir", checkStaging},
	{"clipboard", checkClipboard},
	{"paste", checkPaste},
	{"hotkey", checkHotkey},
	{"engine", checkEngine},
}

// Run executes all checks and returns the process exit code: 0 when
// nothing failed, 1 otherwise.
func Run(opts Options) int {
	fmt.Println("quill doctor")
	fmt.Println("============")

	failed := 0
	for _, c := range checks {
		r := c.run(opts)
		switch r.status {
		case statusOK:
			fmt.Printf("  OK    %-16s %s\n", c.name, r.detail)
		case statusSkip:
			fmt.Printf("  SKIP  %-16s %s\n", c.name, r.detail)
		case statusFail:
			failed++
			fmt.Printf("  FAIL  %-16s %s\n", c.name, r.detail)
			if r.hint != "" {
				fmt.Printf("        %-16s hint: %s\n", "", r.hint)
			}
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d check(s) failed\n", failed)
		return 1
	}
	fmt.Println("all checks passed")
	return 0
}

func checkDisplay(Options) result {
	d := deliver.DetectDisplay()
	if d == (deliver.Display{}) {
		return skip("no display server; delivery uses the library fallback")
	}
	return ok(d.String())
}

func checkRecorder(opts Options) result {
	path, err := exec.LookPath(opts.Recorder)
	if err != nil {
		return fail(opts.Recorder+" not found in PATH",
			"install pipewire (pw-record) or point -recorder at another capture tool")
	}
	return ok(path)
}

func checkSources(Options) result {
	sources := capture.AvailableSources()
	if len(sources) == 0 {
		return skip("no pulse server reachable or no sources visible")
	}
	return ok(fmt.Sprintf("%d source(s)", len(sources)))
}

func checkDevice(opts Options) result {
	if opts.Device == "" {
		return fail("none configured", "pass -device with a name from the source list")
	}
	if err := capture.ValidateDevice(opts.Device, opts.Recorder); err != nil {
		return fail(err.Error(), "pass -device with a name from the source list")
	}
	return ok(opts.Device)
}

func checkStaging(Options) result {
	dir := filepath.Dir(capture.StagingPath())
	f, err := os.CreateTemp(dir, "quill-doctor-*")
	if err != nil {
		return fail("cannot write to "+dir, "check TMPDIR and directory permissions")
	}
	f.Close()
	os.Remove(f.Name())
	return ok(dir)
}

func checkClipboard(Options) result {
	d := deliver.DetectDisplay()
	if d == (deliver.Display{}) {
		return skip("no display server")
	}
	clip, _ := deliver.InstalledTools(d)
	if len(clip) == 0 {
		return fail("no clipboard tool for "+d.String(),
			"install wl-clipboard (wayland) or xclip (x11)")
	}
	return ok(strings.Join(clip, ", "))
}

func checkPaste(opts Options) result {
	if !opts.Paste {
		return skip("not enabled (-paste)")
	}
	d := deliver.DetectDisplay()
	_, paste := deliver.InstalledTools(d)
	if len(paste) > 0 {
		return ok(strings.Join(paste, ", "))
	}
	detail, err := syntheticPaste()
	if err != nil {
		return fail("no paste tool installed and "+err.Error(),
			"install wtype (wayland) or xdotool (x11)")
	}
	return ok("no paste tool installed; falling back to " + detail)
}

func checkHotkey(opts Options) result {
	if !opts.Hotkey {
		return skip("not enabled (-hotkey)")
	}
	detail, err := hotkey.Diagnose()
	if err != nil {
		return fail(err.Error(), "add the user to the input group, then re-login")
	}
	return ok(detail)
}

func checkEngine(opts Options) result {
	eng, err := engine.New(opts.Engine)
	if err != nil {
		return fail(err.Error(), engineHint(opts.Engine))
	}
	eng.Close()
	return ok(eng.Name() + " ready")
}

func engineHint(sel engine.Selector) string {
	switch sel.Kind {
	case engine.KindOpenAI:
		return "set OPENAI_API_KEY"
	case engine.KindONNX:
		return "model bundles are fetched on first use; check network access and the cache dir"
	default:
		return "fetch a ggml model file, or pass -model-dir / -model with its location"
	}
}
