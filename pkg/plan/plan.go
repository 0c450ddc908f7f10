// Package plan decides which timestamp each discovered file should get.
package plan

import (
	"github.com/sirupsen/logrus"

	"github.com/quidome/exif2mtime-go/pkg/scan"
)

// DateSource resolves a normalized capture date for a path.
type DateSource interface {
	Extract(path string) (timestamp string, ok bool)
}

// SidecarSource resolves a sidecar's capture date through its companion.
type SidecarSource interface {
	Resolve(path string) (timestamp string, ok bool)
}

// Operation is a planned timestamp change.
type Operation struct {
	Path      string
	Kind      scan.Kind
	Timestamp string
}

// Planner routes media files to their own metadata and sidecars to their
// companion's.
type Planner struct {
	Media    DateSource
	Sidecars SidecarSource
	Log      logrus.FieldLogger
}

func (p *Planner) log() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// Plan resolves the timestamp for one target. ok is false, with a warning
// logged, when no date could be found.
func (p *Planner) Plan(t scan.Target) (Operation, bool) {
	var (
		ts string
		ok bool
	)
	if t.Kind == scan.KindSidecar {
		ts, ok = p.Sidecars.Resolve(t.Path)
	} else {
		ts, ok = p.Media.Extract(t.Path)
	}
	if !ok {
		p.log().WithField("path", t.Path).Warn("no date found")
		return Operation{}, false
	}
	return Operation{Path: t.Path, Kind: t.Kind, Timestamp: ts}, true
}

// PlanAll plans every target, skipping those without a date.
func (p *Planner) PlanAll(targets []scan.Target) []Operation {
	ops := make([]Operation, 0, len(targets))
	for _, t := range targets {
		if op, ok := p.Plan(t); ok {
			ops = append(ops, op)
		}
	}
	return ops
}
