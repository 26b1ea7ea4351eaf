package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	glog "github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex/pkg/entities"
	"pokedex/pkg/utils"
)

func TestEchoLevel(t *testing.T) {
	assert.Equal(t, glog.DEBUG, echoLevel(log.DebugLevel))
	assert.Equal(t, glog.INFO, echoLevel(log.InfoLevel))
	assert.Equal(t, glog.WARN, echoLevel(log.WarnLevel))
	assert.Equal(t, glog.ERROR, echoLevel(log.ErrorLevel))
	assert.Equal(t, glog.ERROR, echoLevel(log.FatalLevel))
}

// fakeCatalog answers the type and pokemon lookups used by the type command.
func fakeCatalog(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/type/fire", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"pokemon":[{"slot":1,"pokemon":{"name":"charmander","url":"x/pokemon/4/"}}]}`))
	})
	mux.HandleFunc("/api/v2/pokemon/charmander", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":4,"name":"charmander","types":[{"slot":1,"type":{"name":"fire"}}],"sprites":{"front_default":"4.png"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/api/v2"
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTypeCommandPrintsCards(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UPSTREAM_BASE_URL", fakeCatalog(t))

	out, err := runCLI(t, "type", "FIRE")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"charmander","id":4,"image":"4.png","types":["fire"]}]`, out)
}

func TestTypeCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("UPSTREAM_BASE_URL", fakeCatalog(t))

	path := filepath.Join(dir, "out", "fire.json")
	_, err := runCLI(t, "type", "fire", "--out", path)
	require.NoError(t, err)

	cards, err := utils.Load[[]entities.Card](path)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 4, cards[0].ID)
}

func TestDetailCommandRequiresIdentifier(t *testing.T) {
	_, err := runCLI(t, "detail")
	assert.Error(t, err)
}
