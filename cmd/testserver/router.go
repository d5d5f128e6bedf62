package main

import (
	"net/http"

	"github.com/angeloszaimis/healthcheck/internal/flaky"
)

func setupRouter(handler *flaky.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/healthcheck", handler)

	return mux
}
