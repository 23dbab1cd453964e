package fhirmodel

import (
	"runtime"
	"testing"

	"github.com/gofhir/fhirmodel/pkg/logger"
	"github.com/gofhir/fhirmodel/pkg/resource"
	"github.com/gofhir/fhirmodel/pkg/schema"
	"github.com/gofhir/fhirmodel/pkg/terminology"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Version != R4 {
		t.Errorf("Version = %s; want R4", o.Version)
	}
	if o.Registry != schema.Default {
		t.Error("Registry is not schema.Default")
	}
	if !o.ValidateConstraints || !o.ReportModifiers {
		t.Error("constraints and modifier reporting should be on by default")
	}
	if o.Terminology != nil || o.Resolver != nil || o.StrictMode {
		t.Error("terminology, resolver and strict mode should be off by default")
	}
	if o.WorkerCount != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d; want %d", o.WorkerCount, runtime.NumCPU())
	}
}

func TestOptions(t *testing.T) {
	store := terminology.NewEmptyStore()
	reg := schema.NewRegistry()
	resolver := resource.ContainedResolver{}
	l := logger.Nop()

	tests := []struct {
		name  string
		opt   Option
		check func(*Options) bool
	}{
		{"version", WithVersion(R5), func(o *Options) bool { return o.Version == R5 }},
		{"invalid version ignored", WithVersion("R3"), func(o *Options) bool { return o.Version == R4 }},
		{"registry", WithRegistry(reg), func(o *Options) bool { return o.Registry == reg }},
		{"nil registry ignored", WithRegistry(nil), func(o *Options) bool { return o.Registry == schema.Default }},
		{"terminology", WithTerminology(store), func(o *Options) bool { return o.Terminology == store }},
		{"resolver", WithResolver(resolver), func(o *Options) bool { return o.Resolver != nil }},
		{"constraints", WithConstraints(false), func(o *Options) bool { return !o.ValidateConstraints }},
		{"modifiers", WithModifierExtensions(false), func(o *Options) bool { return !o.ReportModifiers }},
		{"strict", WithStrictMode(true), func(o *Options) bool { return o.StrictMode }},
		{"max errors", WithMaxErrors(10), func(o *Options) bool { return o.MaxErrors == 10 }},
		{"workers", WithWorkerCount(3), func(o *Options) bool { return o.WorkerCount == 3 }},
		{"zero workers ignored", WithWorkerCount(0), func(o *Options) bool { return o.WorkerCount == runtime.NumCPU() }},
		{"expression cache", WithExpressionCache(5), func(o *Options) bool { return o.ExpressionCacheSize == 5 }},
		{"logger", WithLogger(l), func(o *Options) bool { return o.Logger == l }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.opt(o)
			if !tt.check(o) {
				t.Errorf("option not applied: %+v", o)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	fast := DefaultOptions()
	for _, opt := range FastOptions() {
		opt(fast)
	}
	if fast.ValidateConstraints || fast.ReportModifiers {
		t.Error("FastOptions() left constraints or modifier reporting on")
	}

	strict := DefaultOptions()
	for _, opt := range StrictOptions() {
		opt(strict)
	}
	if !strict.StrictMode || strict.Terminology == nil || !strict.ValidateConstraints {
		t.Error("StrictOptions() did not enable every check")
	}
}
