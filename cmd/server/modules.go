package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/auditor/internal/api"
	"github.com/JaimeStill/auditor/internal/config"
	"github.com/JaimeStill/auditor/internal/infrastructure"
	"github.com/JaimeStill/auditor/pkg/middleware"
	"github.com/JaimeStill/auditor/pkg/module"
	"github.com/JaimeStill/auditor/web/app"
)

const appPrefix = "/app"

type Modules struct {
	API *module.Module
	App *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(appPrefix, app.PageData{
		APIBase: cfg.API.BasePath,
		Model:   infra.Inference.Model(),
	})
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger.With("module", "app")))

	return &Modules{
		API: apiModule,
		App: appModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	for _, mod := range []*module.Module{m.API, m.App} {
		if err := router.Mount(mod); err != nil {
			return err
		}
	}
	return nil
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, appPrefix+"/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
