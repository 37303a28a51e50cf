// Package deliver places transcripts on the desktop clipboard and
// optionally triggers a paste into the focused window. Backends are tried
// in a fixed preference order, filtered by the detected display server;
// the first success wins.
package deliver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	cb "github.com/atotto/clipboard"

	"quill/log"
	"quill/proc"
)

type Mode int

const (
	CopyOnly Mode = iota
	CopyAndPaste
)

// ErrClipboard means every clipboard backend was skipped or failed. Paste
// is never attempted without a successful copy.
var ErrClipboard = errors.New("no clipboard backend succeeded")

const backendTimeout = 3 * time.Second

// backend is one subprocess candidate in a preference chain.
type backend struct {
	name      string
	display   Display // which servers the tool serves
	argv      []string
	sendText  bool   // pipe the transcript to stdin
	script    string // fixed stdin payload instead of the transcript
	layoutEnv bool   // honors DOTOOL_XKB_* hints
}

func (b backend) eligible(d Display) bool {
	return (b.display.Wayland && d.Wayland) || (b.display.X11 && d.X11)
}

var clipboardBackends = []backend{
	{name: "wl-copy", display: Display{Wayland: true}, argv: []string{"wl-copy"}, sendText: true},
	{name: "xclip", display: Display{X11: true}, argv: []string{"xclip", "-selection", "clipboard"}, sendText: true},
	{name: "xsel", display: Display{X11: true}, argv: []string{"xsel", "--clipboard", "--input"}, sendText: true},
}

var pasteBackends = []backend{
	{name: "wtype", display: Display{Wayland: true}, argv: []string{"wtype", "-M", "ctrl", "-P", "v", "-p", "v", "-m", "ctrl"}},
	{name: "ydotool", display: Display{Wayland: true}, argv: []string{"ydotool", "key", "29:1", "47:1", "47:0", "29:0"}},
	{name: "dotool", display: Display{Wayland: true}, argv: []string{"dotool"}, script: "key ctrl+v\n", layoutEnv: true},
	{name: "xdotool", display: Display{X11: true}, argv: []string{"xdotool", "key", "--clearmodifiers", "ctrl+v"}},
}

// Outcome reports what delivery achieved.
type Outcome struct {
	Copied    bool
	CopiedVia string
	Pasted    bool
	PastedVia string
}

func (o Outcome) String() string {
	switch {
	case o.Pasted:
		return fmt.Sprintf("delivered (copied via %s, pasted via %s)", o.CopiedVia, o.PastedVia)
	case o.Copied:
		return fmt.Sprintf("delivered (clipboard only, via %s)", o.CopiedVia)
	default:
		return "not delivered"
	}
}

// Chain walks the backend chains for one desktop environment.
type Chain struct {
	Mode    Mode
	Display Display
	Layout  string // optional xkb hints for tools that retype the shortcut
	Variant string

	lookPath  func(string) (string, error)
	run       func(ctx context.Context, stdin io.Reader, env []string, name string, arg ...string) error
	libCopy   func(string) error
	sendPaste func() error
}

func NewChain(mode Mode, layout, variant string) *Chain {
	return &Chain{
		Mode:      mode,
		Display:   DetectDisplay(),
		Layout:    layout,
		Variant:   variant,
		lookPath:  exec.LookPath,
		run:       proc.Run,
		libCopy:   cb.WriteAll,
		sendPaste: sendPasteKeys,
	}
}

// Deliver copies text to the clipboard and, in CopyAndPaste mode, tries to
// paste it. A failed paste after a successful copy is not an error; the
// outcome records what happened.
func (c *Chain) Deliver(ctx context.Context, text string) (Outcome, error) {
	var out Outcome

	via, err := c.copy(ctx, text)
	if err != nil {
		return out, err
	}
	out.Copied, out.CopiedVia = true, via

	if c.Mode != CopyAndPaste {
		return out, nil
	}
	pastedVia, err := c.paste(ctx)
	if err != nil {
		log.Warnf("paste failed, transcript stays on clipboard: %v", err)
		return out, nil
	}
	out.Pasted, out.PastedVia = true, pastedVia
	return out, nil
}

func (c *Chain) copy(ctx context.Context, text string) (string, error) {
	for _, b := range clipboardBackends {
		if !b.eligible(c.Display) {
			log.Debugf("clipboard: %s skipped on %s", b.name, c.Display)
			continue
		}
		if _, err := c.lookPath(b.argv[0]); err != nil {
			log.Debugf("clipboard: %s not installed", b.name)
			continue
		}
		if err := c.attempt(ctx, b, text); err != nil {
			log.Debugf("clipboard: %s failed: %v", b.name, err)
			continue
		}
		return b.name, nil
	}

	// library fallback, works without any of the tools installed
	if err := c.libCopy(text); err != nil {
		log.Debugf("clipboard: library fallback failed: %v", err)
		return "", ErrClipboard
	}
	return "library", nil
}

func (c *Chain) paste(ctx context.Context) (string, error) {
	for _, b := range pasteBackends {
		if !b.eligible(c.Display) {
			continue
		}
		if _, err := c.lookPath(b.argv[0]); err != nil {
			continue
		}
		if err := c.attempt(ctx, b, ""); err != nil {
			log.Debugf("paste: %s failed: %v", b.name, err)
			continue
		}
		return b.name, nil
	}

	// synthetic Ctrl+V, works without any paste tool installed
	if err := c.sendPaste(); err != nil {
		return "", fmt.Errorf("all paste backends failed, last: %w", err)
	}
	return "uinput", nil
}

// InstalledTools reports which clipboard and paste helpers are both
// installed and usable on the given display, for diagnostics.
func InstalledTools(d Display) (clip, paste []string) {
	for _, b := range clipboardBackends {
		if b.eligible(d) {
			if _, err := exec.LookPath(b.argv[0]); err == nil {
				clip = append(clip, b.name)
			}
		}
	}
	for _, b := range pasteBackends {
		if b.eligible(d) {
			if _, err := exec.LookPath(b.argv[0]); err == nil {
				paste = append(paste, b.name)
			}
		}
	}
	return clip, paste
}

func (c *Chain) attempt(ctx context.Context, b backend, text string) error {
	ctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()

	var stdin io.Reader
	switch {
	case b.sendText:
		stdin = strings.NewReader(text)
	case b.script != "":
		stdin = strings.NewReader(b.script)
	}

	var env []string
	if b.layoutEnv {
		if c.Layout != "" {
			env = append(env, "DOTOOL_XKB_LAYOUT="+c.Layout)
		}
		if c.Variant != "" {
			env = append(env, "DOTOOL_XKB_VARIANT="+c.Variant)
		}
	}
	return c.run(ctx, stdin, env, b.argv[0], b.argv[1:]...)
}
