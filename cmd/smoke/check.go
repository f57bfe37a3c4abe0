package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"hello-service/service"
)

type result struct {
	Name string
	Err  error
}

type probe struct {
	method     string
	path       string
	wantStatus int
	// nil: corpo não é verificado
	wantBody map[string]string
}

func probes(name string) []probe {
	return []probe{
		{http.MethodGet, service.RootPath, http.StatusOK, map[string]string{"message": service.Greeting(name)}},
		{http.MethodGet, service.HealthPath, http.StatusOK, map[string]string{"status": "ok"}},
		{http.MethodPost, service.RootPath, http.StatusMethodNotAllowed, nil},
		{http.MethodPost, service.HealthPath, http.StatusMethodNotAllowed, nil},
	}
}

// check roda todas as verificações; uma falha não interrompe as seguintes.
func check(ctx context.Context, client *http.Client, baseURL, name string) []result {
	baseURL = strings.TrimRight(baseURL, "/")

	var out []result
	for _, p := range probes(name) {
		out = append(out, result{
			Name: p.method + " " + p.path,
			Err:  runProbe(ctx, client, baseURL, p),
		})
	}
	return out
}

func runProbe(ctx context.Context, client *http.Client, baseURL string, p probe) error {
	req, err := http.NewRequestWithContext(ctx, p.method, baseURL+p.path, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != p.wantStatus {
		return fmt.Errorf("status %d, want %d", resp.StatusCode, p.wantStatus)
	}
	if p.wantBody == nil {
		return nil
	}

	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		return fmt.Errorf("decode body %q: %w", data, err)
	}
	if !reflect.DeepEqual(got, p.wantBody) {
		return fmt.Errorf("body %v, want %v", got, p.wantBody)
	}
	return nil
}
