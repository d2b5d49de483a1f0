package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// ExecSink shows desktop alerts through the platform notifier command.
// BringToFront is delegated to the host application (the TUI program)
// through an injected callback; on a headless run it is a no-op.
type ExecSink struct {
	log   logrus.FieldLogger
	front func()
}

func NewExecSink(log logrus.FieldLogger, front func()) *ExecSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ExecSink{log: log, front: front}
}

func (s *ExecSink) ShowAlert(title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(body), escapeAppleScript(title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func (s *ExecSink) PlayCue() {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("paplay", "/usr/share/sounds/freedesktop/stereo/message.oga").Run()
	case "darwin":
		err = exec.Command("afplay", "/System/Library/Sounds/Glass.aiff").Run()
	}
	if err != nil {
		s.log.WithError(err).Debug("notification cue failed")
	}
}

func (s *ExecSink) BringToFront() {
	if s.front != nil {
		s.front()
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// NopSink discards all delivery effects. Used when desktop
// notifications are disabled by configuration.
type NopSink struct{}

func (NopSink) ShowAlert(title, body string) error { return nil }
func (NopSink) PlayCue()                           {}
func (NopSink) BringToFront()                      {}
