package ux

import (
	"fmt"

	"github.com/jorge-barreto/mesh/internal/role"
	"github.com/jorge-barreto/mesh/internal/state"
)

// RenderStatus prints one role's persisted state row.
func RenderStatus(st *state.ServiceState, reachable bool) {
	running := fmt.Sprintf("%soffline%s", Dim, Reset)
	if reachable {
		running = fmt.Sprintf("%sup%s", Green, Reset)
	}
	status := st.Status
	switch status {
	case state.StatusCompleted:
		status = Green + status + Reset
	case state.StatusError:
		status = Red + status + Reset
	case state.StatusProcessing:
		status = Yellow + status + Reset
	}
	last := "never"
	if !st.LastUpdate.IsZero() {
		last = st.LastUpdate.Local().Format("2006-01-02 15:04:05")
	}
	fmt.Printf("  %-14s %-10s %-22s %s\n", st.Role, running, status, last)
	if st.Error != "" {
		fmt.Printf("  %s%-14s %s%s\n", Dim, "", st.Error, Reset)
	}
}

// RenderGraph prints the dependency graph.
func RenderGraph(g *role.Graph) {
	fmt.Printf("\n%sDependency graph:%s\n\n", Bold, Reset)
	for _, r := range role.All {
		ups := g.Upstreams(r)
		if len(ups) == 0 {
			fmt.Printf("  %-14s %s(no dependencies)%s\n", r, Dim, Reset)
			continue
		}
		fmt.Printf("  %-14s ← ", r)
		for i, u := range ups {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Print(u)
		}
		fmt.Println()
	}
	fmt.Println()
}
