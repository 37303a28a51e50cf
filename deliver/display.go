package deliver

import "os"

// Display says which display servers are reachable. Both can be true in a
// Wayland session with XWayland; both false means a console session.
type Display struct {
	Wayland bool
	X11     bool
}

func DetectDisplay() Display {
	return displayFromEnv(os.Getenv)
}

func displayFromEnv(getenv func(string) string) Display {
	return Display{
		Wayland: getenv("WAYLAND_DISPLAY") != "",
		X11:     getenv("DISPLAY") != "",
	}
}

func (d Display) String() string {
	switch {
	case d.Wayland && d.X11:
		return "wayland+x11"
	case d.Wayland:
		return "wayland"
	case d.X11:
		return "x11"
	default:
		return "none"
	}
}
