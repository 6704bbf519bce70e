package bootstrap

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/inject/di"
)

// Summary records what a started application registered.
type Summary struct {
	serviceName     string
	version         string
	namespace       string
	registryID      string
	startupDuration time.Duration
	registrations   []di.Registration
}

// NewSummary creates a new startup summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetRegistry captures the registrations of an initialized Registry.
func (s *Summary) SetRegistry(namespace string, r *di.Registry) {
	s.namespace = namespace
	s.registryID = r.ID().String()
	s.registrations = r.Registrations()
}

// Registrations returns the captured registrations.
func (s *Summary) Registrations() []di.Registration {
	return s.registrations
}

// Display prints the summary as a tree, concrete types first.
func (s *Summary) Display(w io.Writer) {
	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	namespace := s.namespace
	if namespace == "" {
		namespace = "(all)"
	}
	fmt.Fprintf(w, "   namespace: %s\n   registry:  %s\n\n", namespace, s.registryID)

	var concrete, aliases []di.Registration
	for _, reg := range s.registrations {
		if reg.Alias {
			aliases = append(aliases, reg)
		} else {
			concrete = append(concrete, reg)
		}
	}

	if len(concrete) == 0 {
		fmt.Fprintf(w, "📦 Injectables\n   └── none registered\n")
		return
	}

	fmt.Fprintf(w, "📦 Injectables (%d)\n", len(concrete))
	for i, reg := range concrete {
		fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(concrete)), reg.Key)
	}

	if len(aliases) > 0 {
		fmt.Fprintf(w, "\n🔗 Interfaces (%d)\n", len(aliases))
		for i, reg := range aliases {
			fmt.Fprintf(w, "   %s %s → %s\n", treePrefix(i, len(aliases)), reg.Key, reg.Concrete)
		}
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}
