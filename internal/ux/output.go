package ux

import (
	"fmt"
	"time"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// ServiceHeader prints the daemon startup banner.
func ServiceHeader(roleName, project, addr string) {
	fmt.Printf("\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	fmt.Printf("%s[%s]%s  %smesh %s service — project %s — listening on %s%s\n",
		Dim, timestamp(), Reset, Bold, roleName, project, addr, Reset)
	fmt.Printf("%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// Notification prints an incoming notification line.
func Notification(source string, kind string, accepted bool) {
	if accepted {
		fmt.Printf("%s[%s]%s  %s◆ %s from %s — accepted%s\n",
			Dim, timestamp(), Reset, Cyan, kind, source, Reset)
		return
	}
	fmt.Printf("%s[%s]%s  %s– %s from %s ignored (not a dependency)%s\n",
		Dim, timestamp(), Reset, Dim, kind, source, Reset)
}

// RunStart prints a pipeline run header.
func RunStart(source string) {
	fmt.Printf("%s[%s]%s  %s▶ processing update from %s%s\n",
		Dim, timestamp(), Reset, Bold, source, Reset)
}

// RunComplete prints a pipeline completion message.
func RunComplete(duration time.Duration, continuations int) {
	extra := ""
	if continuations > 0 {
		extra = fmt.Sprintf(" (%d continuation(s))", continuations)
	}
	m := int(duration.Minutes())
	s := int(duration.Seconds()) % 60
	fmt.Printf("%s[%s]%s  %s✓ run complete (%dm %02ds)%s%s\n",
		Dim, timestamp(), Reset, Green, m, s, extra, Reset)
}

// RunFail prints a pipeline failure message.
func RunFail(err error) {
	fmt.Printf("%s[%s]%s  %s✗ run failed: %v%s\n",
		Dim, timestamp(), Reset, Red, err, Reset)
}

// BroadcastFail prints a per-peer broadcast failure.
func BroadcastFail(peer string, err error) {
	fmt.Printf("%s[%s]%s  %s⚠ broadcast to %s failed: %v%s\n",
		Dim, timestamp(), Reset, Yellow, peer, err, Reset)
}

// RawFallback warns that extraction fell back to raw text.
func RawFallback() {
	fmt.Printf("%s[%s]%s  %s⚠ no structured payload extracted; keeping raw text%s\n",
		Dim, timestamp(), Reset, Yellow, Reset)
}

// ShuttingDown prints the shutdown notice.
func ShuttingDown(roleName string) {
	fmt.Printf("\n%s[%s]%s  %s%s service shutting down%s\n",
		Dim, timestamp(), Reset, Yellow, roleName, Reset)
}
