package api

import (
	"github.com/JaimeStill/auditor/internal/pipeline"
	"github.com/JaimeStill/auditor/internal/sessions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sessions *sessions.Store
	Pipeline pipeline.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	pipelineSystem := pipeline.New(
		&runtime.Pipeline,
		runtime.Sessions,
		pipeline.Providers{
			Extractor: runtime.Extractor,
			Search:    runtime.Search,
			Inference: runtime.Inference,
		},
		runtime.Logger,
	)

	return &Domain{
		Sessions: runtime.Sessions,
		Pipeline: pipelineSystem,
	}
}
